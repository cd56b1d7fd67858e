// Package notes содержит HTTP-обработчики для управления заметками.
package notes

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"anchornote/internal/anchornote/adapters/http/middleware"
	"anchornote/internal/anchornote/app"
	"anchornote/internal/anchornote/domain/entities"
	"anchornote/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerDeleteNote = "handling delete note request"

	ErrMsgInvalidNoteID      = "invalid note id"
	ErrMsgInvalidPagination  = "invalid pagination parameters"
	ErrMsgInvalidRequestBody = "invalid request body"
)

// CreateNoteRequest - тело запроса на создание заметки.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest - тело запроса на обновление заметки.
type UpdateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteResponse - представление заметки в ответе.
type NoteResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateNoteResponse - ответ на создание заметки вместе с исходом якорения.
type CreateNoteResponse struct {
	Note      NoteResponse          `json:"note"`
	Anchoring *app.AnchoringOutcome `json:"anchoring"`
}

// ListNotesResponse - страница списка заметок.
type ListNotesResponse struct {
	Notes  []NoteResponse `json:"notes"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	noteUseCase *app.NoteUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(noteUseCase *app.NoteUseCase) *Handler {
	return &Handler{
		noteUseCase: noteUseCase,
	}
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(reqCtx, LogHandlerCreateNote)

	var req CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	note, outcome, err := h.noteUseCase.CreateNote(reqCtx, req.Title, req.Content)
	if err != nil {
		log.Error(reqCtx, "failed to create note", zap.Error(err))
		return HandleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(CreateNoteResponse{
		Note:      toNoteResponse(note),
		Anchoring: outcome,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(reqCtx, LogHandlerGetNote)

	noteID, err := ParseNoteID(ctx)
	if err != nil {
		log.Error(reqCtx, ErrMsgInvalidNoteID, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	note, err := h.noteUseCase.GetNote(reqCtx, noteID)
	if err != nil {
		log.Error(reqCtx, "failed to get note", zap.Error(err))
		return HandleError(ctx, err)
	}

	if err := ctx.JSON(toNoteResponse(note)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListNotes обрабатывает запрос на получение списка заметок с пагинацией.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(reqCtx, LogHandlerListNotes)

	limit, err := strconv.Atoi(ctx.Query("limit", "10"))
	if err != nil {
		log.Error(reqCtx, ErrMsgInvalidPagination, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidPagination)
	}

	offset, err := strconv.Atoi(ctx.Query("offset", "0"))
	if err != nil {
		log.Error(reqCtx, ErrMsgInvalidPagination, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidPagination)
	}

	notes, total, err := h.noteUseCase.ListNotes(reqCtx, limit, offset)
	if err != nil {
		log.Error(reqCtx, "failed to list notes", zap.Error(err))
		return HandleError(ctx, err)
	}

	resp := ListNotesResponse{
		Notes:  make([]NoteResponse, 0, len(notes)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(note))
	}

	if err := ctx.JSON(resp); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(reqCtx, LogHandlerUpdateNote)

	noteID, err := ParseNoteID(ctx)
	if err != nil {
		log.Error(reqCtx, ErrMsgInvalidNoteID, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	var req UpdateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	note, err := h.noteUseCase.UpdateNote(reqCtx, noteID, req.Title, req.Content)
	if err != nil {
		log.Error(reqCtx, "failed to update note", zap.Error(err))
		return HandleError(ctx, err)
	}

	if err := ctx.JSON(toNoteResponse(note)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(reqCtx, LogHandlerDeleteNote)

	noteID, err := ParseNoteID(ctx)
	if err != nil {
		log.Error(reqCtx, ErrMsgInvalidNoteID, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	if err := h.noteUseCase.DeleteNote(reqCtx, noteID); err != nil {
		log.Error(reqCtx, "failed to delete note", zap.Error(err))
		return HandleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ParseNoteID извлекает идентификатор заметки из параметров маршрута.
func ParseNoteID(ctx fiber.Ctx) (int64, error) {
	noteID, err := strconv.ParseInt(ctx.Params("note_id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgInvalidNoteID, err)
	}
	if noteID <= 0 {
		return 0, errors.New(ErrMsgInvalidNoteID)
	}
	return noteID, nil
}

// HandleError обрабатывает ошибки бизнес-логики и возвращает соответствующий HTTP-статус.
func HandleError(ctx fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return sendError(ctx, fiber.StatusNotFound, "note not found")
	case errors.Is(err, app.ErrNoAnchorRecord):
		return sendError(ctx, fiber.StatusNotFound, "note has no anchor record")
	case errors.Is(err, app.ErrInvalidParams):
		return sendError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return sendError(ctx, fiberErr.Code, fiberErr.Message)
	}

	return sendError(ctx, fiber.StatusInternalServerError, "Internal server error")
}

func badRequest(ctx fiber.Ctx, message string) error {
	return sendError(ctx, fiber.StatusBadRequest, message)
}

func sendError(ctx fiber.Ctx, status int, message string) error {
	if err := ctx.Status(status).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

func toNoteResponse(note *entities.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
