package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Conflicto identifies a proposed slot on an assignee's agenda.
type Conflicto struct {
	AsignadoID uint
	Fecha      string
	Hora       string
	Duracion   int // minutes, 0 for calls and tasks
}

// ConflictChecker answers whether a slot collides with another activity for
// the same assignee. The answer is advisory: the backend agenda owns the
// authoritative calendar.
type ConflictChecker interface {
	HayConflicto(ctx context.Context, q Conflicto) (bool, error)
}

// AgendaChecker queries the agenda service over HTTP.
type AgendaChecker struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewAgendaChecker(baseURL, token string) *AgendaChecker {
	return &AgendaChecker{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *AgendaChecker) HayConflicto(ctx context.Context, q Conflicto) (bool, error) {
	params := url.Values{}
	params.Set("asignado", strconv.FormatUint(uint64(q.AsignadoID), 10))
	params.Set("fecha", q.Fecha)
	params.Set("hora", q.Hora)
	if q.Duracion > 0 {
		params.Set("duracion", strconv.Itoa(q.Duracion))
	}

	endpoint := fmt.Sprintf("%s/api/agenda/conflicto?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("agenda error: %s - %s", resp.Status, string(body))
	}

	var out struct {
		Conflicto bool `json:"conflicto"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.Conflicto, nil
}

// ConflictValidator debounces conflict queries while the user is still typing
// a date or time. Each Check cancels the previous in-flight one, so a
// superseded result is dropped instead of racing the newer query.
type ConflictValidator struct {
	checker ConflictChecker
	delay   time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

const debounceDelay = 500 * time.Millisecond

func NewConflictValidator(checker ConflictChecker, delay time.Duration) *ConflictValidator {
	if delay <= 0 {
		delay = debounceDelay
	}
	return &ConflictValidator{checker: checker, delay: delay}
}

// Check schedules a conflict query after the debounce delay and reports the
// answer through report, unless a newer Check supersedes it first.
func (v *ConflictValidator) Check(q Conflicto, report func(conflicto bool, err error)) {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.mu.Unlock()

	go func() {
		t := time.NewTimer(v.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		conflicto, err := v.checker.HayConflicto(ctx, q)
		select {
		case <-ctx.Done():
			return
		default:
		}
		report(conflicto, err)
	}()
}

// Stop cancels any pending check.
func (v *ConflictValidator) Stop() {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mu.Unlock()
}
