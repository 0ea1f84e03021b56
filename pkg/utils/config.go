package utils

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

// LoadJSON 从文件加载 JSON 配置到指定结构体
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// LoadEnvFile 加载 .env 文件到环境变量（不覆盖已存在的），
// 文件不存在时静默忽略
func LoadEnvFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	godotenv.Load(path)
}

// Getenv 读取环境变量，为空时返回默认值
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
