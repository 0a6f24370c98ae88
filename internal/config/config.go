// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（AUTH_SECRET、TOTP_SECRET、对象存储密钥）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置（MONGO_URI、REDIS_URL、PORT）
//
// 使用方式：
//   - 开发环境: APP_ENV=dev (默认)
//   - 测试环境: APP_ENV=test
//   - 生产环境: APP_ENV=prod
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"shop-admin/internal/auth"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Redis  RedisConfig  `yaml:"redis"`
	MinIO  MinIOConfig  `yaml:"minio"`
	Auth   AuthConfig   `yaml:"auth"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type MongoConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	DB      int    `yaml:"db"`
}

// MinIOConfig 对象存储配置，AccessKey/SecretKey 来自环境变量
type MinIOConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// AuthConfig 认证相关的 YAML 片段（密钥单独从环境变量读取）
// AccessTokenTTL 为 time.ParseDuration 格式，如 "24h"
type AuthConfig struct {
	AccessTokenTTL string `yaml:"access_token_ttl"`
	BcryptCost     int    `yaml:"bcrypt_cost"`
	TOTPWindow     int    `yaml:"totp_window"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env           Environment
	MongoURI      string
	MongoDatabase string
	RedisURL      string // 空串表示未启用 Redis（限流关闭）
	MinIO         MinIOConfig
	APIPort       string
	Auth          auth.Config
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 构建最终配置
func Load() *Config {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	env := parseEnv(getEnv("APP_ENV", "dev"))
	yamlCfg := loadYAMLConfig(env)

	authCfg := auth.DefaultConfig()
	authCfg.JWTSecret = getEnv("AUTH_SECRET", "")
	authCfg.TOTPSecret = getEnv("TOTP_SECRET", "")
	if yamlCfg.Auth.AccessTokenTTL != "" {
		if d, err := time.ParseDuration(yamlCfg.Auth.AccessTokenTTL); err == nil && d > 0 {
			authCfg.AccessTokenTTL = d
		}
	}
	if yamlCfg.Auth.BcryptCost > 0 {
		authCfg.BcryptCost = yamlCfg.Auth.BcryptCost
	}
	if yamlCfg.Auth.TOTPWindow > 0 {
		authCfg.TOTPWindow = yamlCfg.Auth.TOTPWindow
	}

	minioCfg := yamlCfg.MinIO
	minioCfg.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	minioCfg.SecretKey = getEnv("MINIO_SECRET_KEY", "")

	cfg := &Config{
		Env:           env,
		MongoURI:      getEnv("MONGO_URI", buildMongoURI(yamlCfg.Mongo)),
		MongoDatabase: yamlCfg.Mongo.Database,
		MinIO:         minioCfg,
		APIPort:       getEnv("PORT", yamlCfg.Server.Port),
		Auth:          authCfg,
	}

	if yamlCfg.Redis.Enabled {
		cfg.RedisURL = getEnv("REDIS_URL", buildRedisURL(yamlCfg.Redis))
	}

	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	cfg := &YAMLConfig{
		Server: ServerConfig{Port: "8080"},
		Mongo:  MongoConfig{Host: "localhost", Port: 27017, Database: "shop_admin"},
		Redis:  RedisConfig{Host: "localhost", Port: 6379, DB: 0},
		MinIO:  MinIOConfig{Bucket: "shop-admin"},
	}

	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

// buildMongoURI 构建 MongoDB 连接字符串
func buildMongoURI(m MongoConfig) string {
	return fmt.Sprintf("mongodb://%s:%d", m.Host, m.Port)
}

// buildRedisURL 构建 Redis 连接字符串
func buildRedisURL(r RedisConfig) string {
	return fmt.Sprintf("redis://%s:%d/%d", r.Host, r.Port, r.DB)
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// String 返回配置摘要（隐藏凭证）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Mongo: %s/%s, Redis: %s}",
		c.Env, maskPassword(c.MongoURI), c.MongoDatabase, c.RedisURL)
}

// maskPassword 隐藏连接串中的密码
func maskPassword(url string) string {
	re := regexp.MustCompile(`(://[^:/]+:)([^@]+)(@)`)
	return re.ReplaceAllString(url, "${1}***${3}")
}
