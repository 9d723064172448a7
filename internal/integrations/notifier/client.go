package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client клиент сервиса уведомлений
// Отправка best-effort: вызывающая сторона игнорирует ошибку, бронирование
// не откатывается из-за недоставленного уведомления
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
// ratePerSecond ограничивает поток исходящих уведомлений
func NewClient(baseURL string, timeout time.Duration, ratePerSecond float64, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		log:     log,
	}
}

// SendBookingConfirmed отправляет событие "бронирование подтверждено"
func (c *Client) SendBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications/booking-confirmed", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	c.log.Info("Notification sent: event_id=%s, recipient=%s", event.EventID, event.RecipientEmail)
	return nil
}
