package token

import (
	"strings"
)

const bearerScheme = "bearer"

// ExtractBearer 从 Authorization 头中提取 bearer 凭据
// 头必须恰好为两个空白分隔的字段，且 scheme 为 bearer（大小写不敏感）；
// 缺失的头按格式非法处理
func ExtractBearer(header string) (string, error) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], bearerScheme) {
		return "", ErrMalformedAuthScheme
	}

	return fields[1], nil
}
