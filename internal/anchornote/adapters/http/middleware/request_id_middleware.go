// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"anchornote/pkg/logger"
)

// Ключ локального контекста запроса.
const RequestContextKey = "requestContext"

// NewRequestIDMiddleware создает промежуточное ПО, присваивающее каждому
// запросу идентификатор и контекст с ним.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get("X-Request-ID"))
		ctx.Locals(RequestContextKey, requestCtx)

		if id, ok := logger.GetRequestID(requestCtx); ok {
			ctx.Set("X-Request-ID", id)
		}

		return ctx.Next()
	}
}
