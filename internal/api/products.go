package api

import (
	"io"
	"log"
	"mime"
	"net/http"
	"path"

	"shop-admin/internal/auth"
	"shop-admin/internal/objstore"
	"shop-admin/internal/service"
)

// 商品图片上传大小上限
const maxImageSize = 10 << 20 // 10 MiB

// ListProducts 分页列出商品
//
// 路由: GET /api/v1/products
//
// 支持 in_stock / category 过滤和 search 搜索（名称、label、描述）。
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.products.GetAll(r.Context(), parsePage(r), parseQuery(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CreateProduct 创建商品
//
// 路由: POST /api/v1/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.CategoryID == "" {
		writeError(w, http.StatusBadRequest, "Name and category_id are required")
		return
	}

	product, err := h.products.Create(r.Context(), auth.GetAuthUser(r.Context()), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("product", "create")
	writeJSON(w, http.StatusCreated, product)
}

// GetProduct 获取商品详情
//
// 路由: GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// UpdateProduct 更新商品
//
// 路由: PUT /api/v1/products/{id}
//
// 未提供的字段保持原值；目标分类先于写入校验，
// 校验失败时商品保持未修改。
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.UpdateProductInput
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.Update(r.Context(), id, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("product", "update")
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct 删除商品
//
// 路由: DELETE /api/v1/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("product", "delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// ToggleProductStock 翻转商品库存状态
//
// 路由: PATCH /api/v1/products/{id}/toggle-stock
func (h *Handler) ToggleProductStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.ToggleStock(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("product", "toggle_stock")
	writeJSON(w, http.StatusOK, product)
}

// UploadProductImage 上传商品图片
//
// 路由: POST /api/v1/products/{id}/image
//
// multipart 表单字段名为 image。对象写入成功后把对象键
// 记到商品上；商品不存在时回收已上传的对象。
func (h *Handler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	if h.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	key := objstore.ProductImageKey(id.Hex(), header.Filename)
	contentType := header.Header.Get("Content-Type")
	if err := h.objects.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		writeErr(w, r, err)
		return
	}

	product, err := h.products.SetImage(r.Context(), id, key)
	if err != nil {
		// 商品写入失败时回收对象，回收失败只记日志
		if delErr := h.objects.Delete(r.Context(), key); delErr != nil {
			log.Printf("[api] orphan image %s: %v", key, delErr)
		}
		writeErr(w, r, err)
		return
	}

	h.metrics.RecordEntityWrite("product", "set_image")
	writeJSON(w, http.StatusOK, product)
}

// DownloadProductImage 下载商品图片
//
// 路由: GET /api/v1/products/{id}/image
func (h *Handler) DownloadProductImage(w http.ResponseWriter, r *http.Request) {
	if h.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if product.Image == "" {
		writeError(w, http.StatusNotFound, "This product has no image")
		return
	}

	obj, err := h.objects.Download(r.Context(), product.Image)
	if err != nil {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}
	defer obj.Close()

	contentType := mime.TypeByExtension(path.Ext(product.Image))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	io.Copy(w, obj)
}
