package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdash/backend/internal/interfaces/http/dto"
)

type laneInput struct {
	Origin struct {
		Pincode string `json:"pincode" binding:"required,pincode"`
	} `json:"origin"`
	PaymentType string   `json:"paymentType" binding:"required,oneof=Prepaid COD"`
	Boxes       []string `json:"boxes" binding:"required,min=1"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req laneInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NoError(t, v.Var("110001", "pincode"))
	assert.Error(t, v.Var("11001", "pincode"))
}

func TestIsPincode(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"110001", true},
		{"400001", true},
		{"560034", true},
		{"011001", false},
		{"11000", false},
		{"1100011", false},
		{"11000A", false},
		{"", false},
		{" 110001", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPincode(tt.in))
		})
	}
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("lists every invalid field", func(t *testing.T) {
		body := strings.NewReader(`{"origin":{"pincode":"12"},"paymentType":"Card","boxes":[]}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-42", resp.Error.RequestID)

		messages := map[string]string{}
		for _, d := range resp.Error.Details {
			messages[d.Field] = d.Message
		}
		assert.Equal(t, map[string]string{
			"origin.pincode": "Must be a 6 digit pincode",
			"paymentType":    "Must be one of: Prepaid COD",
			"boxes":          "Must contain at least 1 item(s)",
		}, messages)
	})

	t.Run("accepts valid input", func(t *testing.T) {
		body := strings.NewReader(`{"origin":{"pincode":"110001"},"paymentType":"COD","boxes":["a"]}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non validation errors carry no details", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"origin":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), `"details"`)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string `validate:"required"`
		Min      string `validate:"min=5"`
		Max      string `validate:"max=3"`
		OneOf    string `validate:"oneof=a b"`
		GT       int    `validate:"gt=0"`
	}

	err := validator.New().Struct(sample{Min: "ab", Max: "abcd", OneOf: "c"})
	require.Error(t, err)

	got := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		got[e.Field()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", got["Required"])
	assert.Equal(t, "Must be at least 5 characters", got["Min"])
	assert.Equal(t, "Must be at most 3 characters", got["Max"])
	assert.Equal(t, "Must be one of: a b", got["OneOf"])
	assert.Equal(t, "Must be greater than 0", got["GT"])
}
