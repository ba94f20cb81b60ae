package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID，作為新 session 的識別碼
func GenerateUUID() string {
	return uuid.New().String()
}
