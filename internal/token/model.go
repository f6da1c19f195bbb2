package token

// Pair access/refresh 令牌对
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Status 验证结果状态
type Status int

const (
	// StatusValid access token 验证通过，未发生轮换
	StatusValid Status = iota
	// StatusRotated access token 已过期并被透明轮换，Pair 为新令牌对
	StatusRotated
)

// Result 验证结果
// 显式标记状态，调用方必须区分处理，不允许运行时类型判断
type Result struct {
	Status  Status
	Subject string
	Pair    *Pair
}

// Rotated 是否发生了轮换
func (r *Result) Rotated() bool {
	return r.Status == StatusRotated
}
