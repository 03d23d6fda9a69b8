// errors стандартизирует ответы об ошибках HTTP-слоя signals-service.
// На вход он принимает ошибку сервисного слоя (sentinel-ошибки service),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Обратное направление (FromCode) использует HTTP-клиент: код из конверта
// превращается обратно в ту же sentinel-ошибку сервиса.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/fritter-signals/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrUnauthenticated — в запросе нет идентичности вызывающего (X-User-Id).
var ErrUnauthenticated = errors.New("unauthenticated")

// APIError — единый формат ошибки для клиентов.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Стабильные коды ошибок API.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeInvalidEmotion  = "invalid_emotion"
	CodeNotFound        = "not_found"
	CodeAlreadyExists   = "already_exists"
	CodeAlreadyVoted    = "already_voted"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "permission_denied"
	CodeCanceled        = "canceled"
	CodeDeadline        = "deadline_exceeded"
	CodeInternal        = "internal"
)

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - дедлайн/отмена контекста проверяются раньше ErrInternal: сервис
//     оборачивает их вместе;
//   - неизвестная ошибка - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	httpStatus, code, msg := classify(err)

	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// FromCode возвращает sentinel-ошибку по коду из конверта.
// Неизвестные коды сводятся к service.ErrInternal.
func FromCode(code string) error {
	switch code {
	case CodeInvalidArgument:
		return service.ErrInvalidArgument
	case CodeInvalidEmotion:
		return service.ErrInvalidEmotion
	case CodeNotFound:
		return service.ErrNotFound
	case CodeAlreadyExists:
		return service.ErrConflict
	case CodeAlreadyVoted:
		return service.ErrAlreadyVoted
	case CodeForbidden:
		return service.ErrForbidden
	case CodeUnauthenticated:
		return ErrUnauthenticated
	case CodeCanceled:
		return context.Canceled
	case CodeDeadline:
		return context.DeadlineExceeded
	default:
		return service.ErrInternal
	}
}

// classify — базовый маппинг ошибка -> HTTP/код/сообщение:
//   - InvalidArgument (битые UUID, тело запроса) -> 400
//   - InvalidEmotion -> 400
//   - NotFound -> 404
//   - Conflict (повторная реакция/предупреждение) -> 409
//   - AlreadyVoted -> 409
//   - Unauthenticated -> 401
//   - Forbidden -> 403
//   - Canceled -> 499
//   - DeadlineExceeded -> 504
//   - прочее -> 500/internal
func classify(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, CodeInternal, "internal error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeDeadline, "deadline exceeded"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, CodeCanceled, "canceled"
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, CodeInvalidArgument, "invalid argument"
	case errors.Is(err, service.ErrInvalidEmotion):
		return http.StatusBadRequest, CodeInvalidEmotion, "invalid emotion"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, "not found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, CodeAlreadyExists, "already exists"
	case errors.Is(err, service.ErrAlreadyVoted):
		return http.StatusConflict, CodeAlreadyVoted, "already voted"
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, CodeUnauthenticated, "unauthenticated"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, CodeForbidden, "permission denied"
	default:
		return http.StatusInternalServerError, CodeInternal, "internal error"
	}
}
