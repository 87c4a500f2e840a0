package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loan-assist-be/internal/constant"
	"loan-assist-be/internal/dto"
	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/pkg/logger"
	"loan-assist-be/internal/pkg/mailer"
	"loan-assist-be/internal/pkg/serverutils"
	"loan-assist-be/internal/repository/memory"
	"loan-assist-be/internal/service"
	"loan-assist-be/pkg/credit"
	"loan-assist-be/pkg/extract"
	"loan-assist-be/pkg/intake"
	"loan-assist-be/pkg/kyc"
	"loan-assist-be/pkg/sanction"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, payload []byte) error { return nil }

type stubIssuer struct{}

func (stubIssuer) Issue(ctx context.Context, session *entity.LoanSession, approvedAmount float64) (*sanction.Issuance, error) {
	return &sanction.Issuance{LetterURL: fmt.Sprintf("/letters/%s", uuid.New())}, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	machine := intake.NewMachine(
		intake.Config{InterestRateAnnual: 12.0},
		extract.NewRuleExtractor(),
		kyc.NewFormatVerifier(),
		credit.NewRuleEvaluator(credit.Policy{
			MinMonthlyIncome:   25000,
			MaxFoir:            0.45,
			InterestRateAnnual: 12.0,
		}),
		stubIssuer{},
	)

	intakeService := service.NewIntakeService(
		memory.NewRepositoryFactory(),
		machine,
		memory.NewLockRegistry(time.Minute),
		nopPublisher{},
		nil,
		mailer.NewEmailService("", 0, "", "", "", ""),
		nopLogger{},
		5*time.Second,
	)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatController(intakeService).RegisterRoutes(app)
	return app
}

func postChat(t *testing.T, app *fiber.App, sessionId, message string) (*http.Response, *dto.ChatResponse) {
	t.Helper()

	body, err := json.Marshal(dto.ChatRequest{SessionId: sessionId, Message: message})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	var parsed dto.ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, &parsed
}

func TestChatEndpoint(t *testing.T) {
	app := newTestApp(t)

	t.Run("empty message rejected", func(t *testing.T) {
		resp, _ := postChat(t, app, "", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("whitespace message rejected", func(t *testing.T) {
		resp, _ := postChat(t, app, "", "   ")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed session id rejected", func(t *testing.T) {
		resp, _ := postChat(t, app, "not-a-uuid", "hello")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("first contact mints a session", func(t *testing.T) {
		resp, parsed := postChat(t, app, "", "hello")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, err := uuid.Parse(parsed.SessionId)
		require.NoError(t, err)
		assert.Equal(t, constant.StageAskName, parsed.Stage)
		assert.NotEmpty(t, parsed.Reply)
	})

	t.Run("full journey over http", func(t *testing.T) {
		_, parsed := postChat(t, app, "", "my name is Asha Rao")
		sessionId := parsed.SessionId
		assert.Equal(t, constant.StageAskPan, parsed.Stage)

		for _, msg := range []string{"ABCDE1234F", "85000", "none", "300000"} {
			_, parsed = postChat(t, app, sessionId, msg)
		}
		assert.Equal(t, constant.StageAskTenure, parsed.Stage)

		_, parsed = postChat(t, app, sessionId, "24")
		assert.Equal(t, constant.StageCompleted, parsed.Stage)
		assert.Equal(t, constant.UiActionShowSanctionDownload, parsed.UiAction)
		require.NotNil(t, parsed.Data)
		assert.NotEmpty(t, parsed.Data.LetterURL)
	})
}

func TestHistoryEndpoint(t *testing.T) {
	app := newTestApp(t)

	_, parsed := postChat(t, app, "", "Asha Rao")
	sessionId := parsed.SessionId

	req := httptest.NewRequest(http.MethodGet, "/chat/v1/history/"+sessionId, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Message string                     `json:"message"`
		Data    []*dto.ChatHistoryResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, constant.TurnRoleUser, envelope.Data[0].Role)
	assert.Equal(t, "Asha Rao", envelope.Data[0].Text)

	t.Run("bad session id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chat/v1/history/garbage", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
