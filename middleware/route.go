package middleware

import (
	midsec "FProject/middleware/security"

	"github.com/gin-gonic/gin"
)

// RouteOpt 路由配置
type RouteOpt struct {
	Auth *midsec.Options // nil = 开放路由
}

// GET 封装：按需挂鉴权中间件
func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.Auth != nil {
		r.GET(path, midsec.Middleware(*opt.Auth), handler)
	} else {
		r.GET(path, handler)
	}
}

// POST 封装
func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.Auth != nil {
		r.POST(path, midsec.Middleware(*opt.Auth), handler)
	} else {
		r.POST(path, handler)
	}
}
