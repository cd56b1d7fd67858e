// Package anchoring содержит HTTP-обработчики якорения и проверки целостности заметок.
package anchoring

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"anchornote/internal/anchornote/adapters/http/middleware"
	"anchornote/internal/anchornote/adapters/http/notes"
	"anchornote/internal/anchornote/app"
	"anchornote/internal/anchornote/ports/ledger"
	"anchornote/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerAnchorNote   = "handling anchor note request"
	LogHandlerVerifyNote   = "handling verify note request"
	LogHandlerLedgerStatus = "handling ledger status request"
)

// LedgerStatusResponse - ответ о доступности узла реестра.
type LedgerStatusResponse struct {
	Reachable       bool `json:"reachable"`
	SigningAccounts int  `json:"signing_accounts"`
}

// Handler обработчик HTTP-запросов якорения и проверки.
type Handler struct {
	noteUseCase         *app.NoteUseCase
	verificationUseCase *app.VerificationUseCase
	gateway             ledger.Gateway
}

// NewHandler создает новый экземпляр обработчика якорения.
func NewHandler(noteUseCase *app.NoteUseCase, verificationUseCase *app.VerificationUseCase, gateway ledger.Gateway) *Handler {
	return &Handler{
		noteUseCase:         noteUseCase,
		verificationUseCase: verificationUseCase,
		gateway:             gateway,
	}
}

// AnchorNote обрабатывает запрос на якорение существующей заметки.
func (h *Handler) AnchorNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.AnchorNote"))
	log.Debug(reqCtx, LogHandlerAnchorNote)

	noteID, err := notes.ParseNoteID(ctx)
	if err != nil {
		log.Error(reqCtx, notes.ErrMsgInvalidNoteID, zap.Error(err))
		return notes.HandleError(ctx, fmt.Errorf("%s: %w", notes.ErrMsgInvalidNoteID, app.ErrInvalidParams))
	}

	outcome, err := h.noteUseCase.AnchorNote(reqCtx, noteID)
	if err != nil {
		log.Error(reqCtx, "failed to anchor note", zap.Error(err))
		return notes.HandleError(ctx, err)
	}

	if err := ctx.JSON(outcome); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// VerifyNote обрабатывает запрос на проверку целостности заметки.
func (h *Handler) VerifyNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.VerifyNote"))
	log.Debug(reqCtx, LogHandlerVerifyNote)

	noteID, err := notes.ParseNoteID(ctx)
	if err != nil {
		log.Error(reqCtx, notes.ErrMsgInvalidNoteID, zap.Error(err))
		return notes.HandleError(ctx, fmt.Errorf("%s: %w", notes.ErrMsgInvalidNoteID, app.ErrInvalidParams))
	}

	note, err := h.noteUseCase.GetNote(reqCtx, noteID)
	if err != nil {
		log.Error(reqCtx, "failed to get note", zap.Error(err))
		return notes.HandleError(ctx, err)
	}

	report, err := h.verificationUseCase.Verify(reqCtx, note)
	if err != nil {
		log.Error(reqCtx, "failed to verify note", zap.Error(err))
		return notes.HandleError(ctx, err)
	}

	if err := ctx.JSON(report); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// LedgerStatus обрабатывает запрос о доступности узла реестра.
func (h *Handler) LedgerStatus(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.LedgerStatus"))
	log.Debug(reqCtx, LogHandlerLedgerStatus)

	resp := LedgerStatusResponse{}
	if h.gateway.IsReachable(reqCtx) {
		resp.Reachable = true
		if accounts, err := h.gateway.SigningAccounts(reqCtx); err == nil {
			resp.SigningAccounts = len(accounts)
		}
	}

	if err := ctx.JSON(resp); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
