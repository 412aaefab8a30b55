package server

import (
	"strings"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/auth"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/errs"
)

// Authenticated validates the bearer token and stores the caller's identity
// in the request values. Parsed claims are cached in redis so hot tokens skip
// signature verification.
func Authenticated(cfg *config.JWTConfig, cache *auth.TokenCache) iris.Handler {
	return func(ctx iris.Context) {
		header := ctx.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			fail(ctx, errs.Unauthorizedf("missing bearer token"))
			return
		}

		claims, hit, err := cache.Get(ctx.Request().Context(), token)
		if err != nil {
			// Cache trouble is not an auth failure, fall back to parsing.
			zap.L().Warn("token cache lookup failed", zap.Error(err))
			hit = false
		}
		if !hit {
			claims, err = auth.ParseToken(cfg, token)
			if err != nil {
				fail(ctx, errs.Unauthorizedf("invalid or expired token"))
				return
			}
			if err := cache.Set(ctx.Request().Context(), token, claims); err != nil {
				zap.L().Warn("token cache store failed", zap.Error(err))
			}
		}

		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("email", claims.Email)
		ctx.Values().Set("role", string(claims.Role))
		ctx.Next()
	}
}

// RequireRole gates a route group to callers holding one of the given roles.
func RequireRole(roles ...user.Role) iris.Handler {
	return func(ctx iris.Context) {
		current := user.Role(ctx.Values().GetString("role"))
		for _, r := range roles {
			if current == r {
				ctx.Next()
				return
			}
		}
		fail(ctx, errs.Forbiddenf("you do not have permission to access this resource"))
	}
}

func currentUserID(ctx iris.Context) int64 {
	return ctx.Values().GetInt64Default("user_id", 0)
}
