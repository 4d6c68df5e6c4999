package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求（用户名即警号）
type LoginRequest struct {
	Username   string `json:"username"    binding:"required"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}
