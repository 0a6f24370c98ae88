// Package mongostore 实现基于 MongoDB 的持久化存储
//
// 使用 mongo-go-driver v2，通过 bson tag 实现 model 结构体的序列化/反序列化。
// 所有 Collection 名称和索引在 ensureIndexes 中统一管理。
// 通用查询/变更操作由泛型 Repo[T] 提供，见 repo.go。
package mongostore

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection 名称常量
const (
	ColUsers      = "users"
	ColCategories = "categories"
	ColProducts   = "products"
)

// Store MongoDB 存储实例
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	// 拓扑是否支持多文档事务（副本集）。
	// 启动时探测一次并缓存，避免每次变更操作多一次往返。
	replicaSet bool
}

// NewStore 创建 MongoDB 存储实例
//
// uri: MongoDB 连接 URI，如 "mongodb://localhost:27017"
// dbName: 数据库名称，如 "shop_admin"
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	// 验证连接
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{client: client, db: db}

	// 探测拓扑：单节点部署不支持多文档事务，相关操作退化为非事务执行
	s.replicaSet = s.probeReplicaSet(ctx)

	// 创建索引
	if err := s.ensureIndexes(ctx); err != nil {
		log.Printf("WARNING: mongostore: ensure indexes failed: %v", err)
	}

	return s, nil
}

// Close 关闭 MongoDB 连接
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Database 返回底层数据库句柄（仅用于测试）
func (s *Store) Database() *mongo.Database {
	return s.db
}

// ReplicaSet 当前拓扑是否支持多文档事务
func (s *Store) ReplicaSet() bool {
	return s.replicaSet
}

// col 获取指定 Collection
func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// probeReplicaSet 通过 hello 命令探测部署拓扑
// 返回 setName 非空即为副本集成员
func (s *Store) probeReplicaSet(ctx context.Context) bool {
	var result struct {
		SetName string `bson:"setName"`
	}
	err := s.client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&result)
	if err != nil {
		log.Printf("WARNING: mongostore: topology probe failed: %v", err)
		return false
	}
	return result.SetName != ""
}

// WithTransaction 在事务内执行 fn
//
// 副本集拓扑下开启 session/transaction，fn 失败时整个事务回滚并
// 重新抛出原始错误，不做自动重试；单节点拓扑直接执行 fn。
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.replicaSet {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongostore: start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx)
	})
	return err
}

// ensureIndexes 创建所有必要的索引
func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		// users
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "role", Value: 1}}, false},

		// categories
		{ColCategories, bson.D{{Key: "label", Value: 1}}, true},
		{ColCategories, bson.D{{Key: "name", Value: 1}}, false},
		{ColCategories, bson.D{{Key: "created_at", Value: -1}}, false},

		// products
		{ColProducts, bson.D{{Key: "label", Value: 1}}, true},
		{ColProducts, bson.D{{Key: "name", Value: 1}}, false},
		{ColProducts, bson.D{{Key: "category_id", Value: 1}}, false},
		{ColProducts, bson.D{{Key: "created_by_id", Value: 1}}, false},
		{ColProducts, bson.D{{Key: "created_at", Value: -1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
