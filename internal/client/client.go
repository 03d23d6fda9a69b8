// Package client — HTTP-клиент API signals-service.
// Ошибки сервера разворачиваются из JSON-конверта обратно в sentinel-ошибки service,
// поэтому вызывающий проверяет их через errors.Is так же, как на сервере.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/api"
	apierrors "github.com/pribylovaa/fritter-signals/internal/errors"
	"github.com/pribylovaa/fritter-signals/internal/models"
)

// Client ходит в API от имени одного пользователя.
// Безопасен для конкурентного использования.
type Client struct {
	base   *url.URL
	http   *http.Client
	userID uuid.UUID
}

// New создаёт клиента. userID может быть uuid.Nil: тогда доступны только операции чтения.
func New(baseURL string, userID uuid.UUID, httpClient *http.Client) (*Client, error) {
	const op = "client/New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid base url %q", op, baseURL)
	}

	hc := &http.Client{Timeout: 15 * time.Second}
	if httpClient != nil {
		copied := *httpClient
		hc = &copied
	}
	hc.Transport = Chain(hc.Transport, WithMetadata(userAgent), WithLogging())

	return &Client{base: u, http: hc, userID: userID}, nil
}

// Caller — пользователь, от имени которого выполняются мутации.
func (c *Client) Caller() uuid.UUID {
	return c.userID
}

// ListReactions — все реакции или реакции на посты автора postAuthor (UUID или имя).
func (c *Client) ListReactions(ctx context.Context, postAuthor string) ([]models.Reaction, error) {
	const op = "client/ListReactions"

	var out api.ReactionList
	if err := c.do(ctx, http.MethodGet, "/reactions", authorQuery(postAuthor), nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := out.Models()
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return items, nil
}

// ListWarnings — все предупреждения или предупреждения постов автора postAuthor.
func (c *Client) ListWarnings(ctx context.Context, postAuthor string) ([]models.ControversyWarning, error) {
	const op = "client/ListWarnings"

	var out api.WarningList
	if err := c.do(ctx, http.MethodGet, "/warnings", authorQuery(postAuthor), nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := out.Models()
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return items, nil
}

// React — новая реакция вызывающего на пост.
func (c *Client) React(ctx context.Context, postID uuid.UUID, emotion string) (*models.Reaction, error) {
	return c.writeReaction(ctx, "client/React", http.MethodPost, postID, emotion)
}

// UpdateReaction — смена метки существующей реакции вызывающего.
func (c *Client) UpdateReaction(ctx context.Context, postID uuid.UUID, emotion string) (*models.Reaction, error) {
	return c.writeReaction(ctx, "client/UpdateReaction", http.MethodPut, postID, emotion)
}

func (c *Client) writeReaction(ctx context.Context, op, method string, postID uuid.UUID, emotion string) (*models.Reaction, error) {
	var out api.Reaction
	in := api.ReactRequest{Emotion: emotion}
	if err := c.do(ctx, method, postPath(postID, "/reactions"), nil, in, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r, err := out.Model()
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return &r, nil
}

// RemoveReaction удаляет реакцию вызывающего на пост.
func (c *Client) RemoveReaction(ctx context.Context, postID uuid.UUID) error {
	const op = "client/RemoveReaction"

	if err := c.do(ctx, http.MethodDelete, postPath(postID, "/reactions"), nil, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CreateWarning помечает пост как спорный.
func (c *Client) CreateWarning(ctx context.Context, postID uuid.UUID, active bool) (*models.ControversyWarning, error) {
	const op = "client/CreateWarning"

	var out api.Warning
	in := api.CreateWarningRequest{Active: active}
	if err := c.do(ctx, http.MethodPost, postPath(postID, "/warning"), nil, in, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w, err := out.Model()
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return &w, nil
}

// CastVote — голос вызывающего за предупреждение поста.
func (c *Client) CastVote(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, error) {
	const op = "client/CastVote"

	var out api.Warning
	if err := c.do(ctx, http.MethodPut, postPath(postID, "/warning/votes"), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w, err := out.Model()
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return &w, nil
}

func postPath(postID uuid.UUID, suffix string) string {
	return "/posts/" + postID.String() + suffix
}

func authorQuery(postAuthor string) url.Values {
	postAuthor = strings.TrimSpace(postAuthor)
	if postAuthor == "" {
		return nil
	}

	return url.Values{"post_author": []string{postAuthor}}
}

// do выполняет запрос: JSON-тело in (если не nil), ответ 2xx декодируется в out (если не nil),
// иначе конверт ошибки превращается в sentinel-ошибку.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("new_request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != uuid.Nil {
		req.Header.Set("X-User-Id", c.userID.String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return nil
}

// decodeError разворачивает конверт {"error":{...}}; без конверта ошибка определяется по статусу.
func decodeError(resp *http.Response) error {
	var env apierrors.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil || env.Error.Code == "" {
		return fmt.Errorf("status=%d: %w", resp.StatusCode, apierrors.FromCode(codeForStatus(resp.StatusCode)))
	}

	if env.Error.RequestID != "" {
		return fmt.Errorf("%s (status=%d request_id=%s): %w", env.Error.Message, resp.StatusCode, env.Error.RequestID, apierrors.FromCode(env.Error.Code))
	}

	return fmt.Errorf("%s (status=%d): %w", env.Error.Message, resp.StatusCode, apierrors.FromCode(env.Error.Code))
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apierrors.CodeInvalidArgument
	case http.StatusUnauthorized:
		return apierrors.CodeUnauthenticated
	case http.StatusForbidden:
		return apierrors.CodeForbidden
	case http.StatusNotFound:
		return apierrors.CodeNotFound
	case http.StatusConflict:
		return apierrors.CodeAlreadyExists
	case http.StatusGatewayTimeout:
		return apierrors.CodeDeadline
	default:
		return apierrors.CodeInternal
	}
}
