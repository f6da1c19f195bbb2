package middleware

import (
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// PathMatcher 路径匹配器
// 支持三种匹配模式：
//   - 精确匹配："/health" 只匹配 "/health"
//   - 前缀匹配："/api/**" 匹配 "/api" 及其所有子路径
//   - Glob 模式："/api/*/users" 使用 path.Match 进行模式匹配
type PathMatcher struct {
	exactPaths  map[string]struct{}
	prefixPaths []string
	patterns    []string
}

// NewPathMatcher 创建路径匹配器
func NewPathMatcher(paths []string) *PathMatcher {
	pm := &PathMatcher{
		exactPaths: make(map[string]struct{}, len(paths)),
	}

	for _, p := range paths {
		if prefix, ok := strings.CutSuffix(p, "/**"); ok {
			pm.prefixPaths = append(pm.prefixPaths, prefix)
		} else if strings.ContainsAny(p, "*?[") {
			pm.patterns = append(pm.patterns, p)
		} else {
			pm.exactPaths[p] = struct{}{}
		}
	}
	return pm
}

// Match 检查路径是否匹配
func (pm *PathMatcher) Match(urlPath string) bool {
	if pm == nil {
		return false
	}

	if _, ok := pm.exactPaths[urlPath]; ok {
		return true
	}

	for _, prefix := range pm.prefixPaths {
		if urlPath == prefix {
			return true
		}
		if len(urlPath) > len(prefix) && urlPath[len(prefix)] == '/' && strings.HasPrefix(urlPath, prefix) {
			return true
		}
	}

	for _, pattern := range pm.patterns {
		if matched, _ := path.Match(pattern, urlPath); matched {
			return true
		}
	}
	return false
}

// shouldSkip 检查请求是否应跳过处理
func shouldSkip(c *gin.Context, matcher *PathMatcher, skipFunc func(*gin.Context) bool) bool {
	if skipFunc != nil && skipFunc(c) {
		return true
	}
	return matcher.Match(c.Request.URL.Path)
}
