package server

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/SwiftFleet/SwiftFleet/internal/common/config"
	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/SwiftFleet/SwiftFleet/internal/common/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kataras/iris/v12"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const authValuesKey = "swiftfleet.auth"

// AuthInfo 从 JWT 中解析出的最小用户信息（放入请求上下文，供业务侧使用）。
type AuthInfo struct {
	Subject string   // 用户 ID
	Roles   []string // 角色列表（RBAC）
}

// AuthFromContext 从请求上下文中取出鉴权信息。
func AuthFromContext(ctx iris.Context) (AuthInfo, bool) {
	v := ctx.Values().Get(authValuesKey)
	if v == nil {
		return AuthInfo{}, false
	}
	ai, ok := v.(AuthInfo)
	return ai, ok
}

// Recovery 防止 panic 直接把进程打崩，并记录栈信息。
func Recovery(log logger.Logger) iris.Handler {
	return func(ctx iris.Context) {
		defer func() {
			if r := recover(); r != nil {
				if log != nil {
					log.Errorf("panic in http path=%s err=%v stack=%s", ctx.Path(), r, string(debug.Stack()))
				}
				ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{
					"error":   "internal",
					"message": "internal error",
				})
			}
		}()
		ctx.Next()
	}
}

// AccessLog 记录每个 HTTP 请求的耗时/状态码。
func AccessLog(log logger.Logger) iris.Handler {
	return func(ctx iris.Context) {
		start := time.Now()
		ctx.Next()
		cost := time.Since(start)

		if log == nil {
			return
		}
		fields := map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": ctx.GetStatusCode(),
			"cost":   cost.String(),
		}
		if ctx.GetStatusCode() >= iris.StatusInternalServerError {
			log.WithFields(fields).Warn("http request failed")
		} else {
			log.WithFields(fields).Info("http request ok")
		}
	}
}

// Tracing 基于 OpenTracing 的最小 HTTP server 中间件：
// - 从请求头里提取 span context（uber-trace-id 等，取决于上游注入格式）
// - 创建 server span 并注入到 request context，方便业务侧 StartSpanFromContext 使用
func Tracing(serviceName string) iris.Handler {
	return func(ctx iris.Context) {
		tracer := opentracing.GlobalTracer()

		var parent opentracing.SpanContext
		if sc, err := tracer.Extract(
			opentracing.HTTPHeaders,
			opentracing.HTTPHeadersCarrier(ctx.Request().Header),
		); err == nil {
			parent = sc
		}

		operation := fmt.Sprintf("HTTP %s %s", ctx.Method(), ctx.Path())

		var span opentracing.Span
		if parent != nil {
			span = tracer.StartSpan(operation, ext.RPCServerOption(parent))
		} else {
			span = tracer.StartSpan(operation)
		}
		defer span.Finish()

		ext.SpanKindRPCServer.Set(span)
		ext.HTTPMethod.Set(span, ctx.Method())
		ext.HTTPUrl.Set(span, ctx.Path())
		ext.Component.Set(span, "http")
		if serviceName != "" {
			span.SetTag("service", serviceName)
		}

		reqCtx := opentracing.ContextWithSpan(ctx.Request().Context(), span)
		ctx.ResetRequest(ctx.Request().WithContext(reqCtx))

		ctx.Next()

		ext.HTTPStatusCode.Set(span, uint16(ctx.GetStatusCode()))
	}
}

// RateLimit 按客户端 IP 限流（令牌桶）。未启用时直接放行。
func RateLimit(cfg config.RateLimitConfig, log logger.Logger) iris.Handler {
	if !cfg.Enabled {
		return func(ctx iris.Context) { ctx.Next() }
	}
	limiter := middleware.NewKeyedLimiter(cfg.Capacity, cfg.RefillRate)
	return func(ctx iris.Context) {
		if !limiter.AllowKey(ctx.Request().Context(), ctx.RemoteAddr()) {
			if log != nil {
				log.Warnf("rate limited client=%s path=%s", ctx.RemoteAddr(), ctx.Path())
			}
			ctx.StopWithJSON(iris.StatusTooManyRequests, iris.Map{
				"error":   "rate_limited",
				"message": "too many requests",
			})
			return
		}
		ctx.Next()
	}
}

// JWTAuth 用于 JWT 鉴权：
// - 从 `Authorization: Bearer <token>` 读取 token
// - 校验 HS256 签名、exp/nbf 等标准字段（jwt/v5 默认校验）
// - 可选校验 iss/aud
// - 将解析结果写入请求上下文
func JWTAuth(cfg config.AuthConfig, log logger.Logger) iris.Handler {
	return func(ctx iris.Context) {
		if !cfg.Enabled {
			ctx.Next()
			return
		}
		if isPublicPath(cfg.PublicPaths, ctx.Path()) {
			ctx.Next()
			return
		}
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			if log != nil {
				log.Warn("auth enabled but jwt_secret is empty")
			}
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{
				"error":   "unauthenticated",
				"message": "auth not configured",
			})
			return
		}

		raw := strings.TrimSpace(ctx.GetHeader("Authorization"))
		if raw == "" {
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{
				"error":   "unauthenticated",
				"message": "missing authorization",
			})
			return
		}
		tokenStr := raw
		if strings.HasPrefix(strings.ToLower(tokenStr), "bearer ") {
			tokenStr = strings.TrimSpace(tokenStr[len("bearer "):])
		}
		if tokenStr == "" {
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{
				"error":   "unauthenticated",
				"message": "invalid authorization",
			})
			return
		}

		claims := struct {
			Roles []string `json:"roles"`
			jwt.RegisteredClaims
		}{}

		parsed, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithLeeway(30*time.Second))
		if err != nil || parsed == nil || !parsed.Valid {
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{
				"error":   "unauthenticated",
				"message": "invalid token",
			})
			return
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{
				"error":   "unauthenticated",
				"message": "invalid issuer",
			})
			return
		}
		if cfg.Audience != "" && !audienceContains(claims.Audience, cfg.Audience) {
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{
				"error":   "unauthenticated",
				"message": "invalid audience",
			})
			return
		}

		ctx.Values().Set(authValuesKey, AuthInfo{
			Subject: claims.Subject,
			Roles:   claims.Roles,
		})
		ctx.Next()
	}
}

// StaffOnly 要求 token roles 与配置的员工角色有交集。
// 鉴权关闭时放行（开发环境）。
func StaffOnly(cfg config.AuthConfig) iris.Handler {
	return func(ctx iris.Context) {
		if !cfg.Enabled {
			ctx.Next()
			return
		}
		ai, ok := AuthFromContext(ctx)
		if !ok {
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{
				"error":   "unauthenticated",
				"message": "missing auth context",
			})
			return
		}
		if !hasAnyRole(ai.Roles, cfg.StaffRoles) {
			ctx.StopWithJSON(iris.StatusForbidden, iris.Map{
				"error":   "forbidden",
				"message": "staff access required",
			})
			return
		}
		ctx.Next()
	}
}

func hasAnyRole(got, required []string) bool {
	if len(got) == 0 || len(required) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(got))
	for _, r := range got {
		r = strings.TrimSpace(strings.ToLower(r))
		if r == "" {
			continue
		}
		set[r] = struct{}{}
	}
	for _, r := range required {
		r = strings.TrimSpace(strings.ToLower(r))
		if r == "" {
			continue
		}
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}

func audienceContains(aud jwt.ClaimStrings, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" || len(aud) == 0 {
		return false
	}
	for _, v := range aud {
		if strings.TrimSpace(v) == want {
			return true
		}
	}
	return false
}

func isPublicPath(public []string, path string) bool {
	if path == "" || len(public) == 0 {
		return false
	}
	for _, p := range public {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}
