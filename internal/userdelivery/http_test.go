package userdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/pkg/randompkg"
	"github.com/ledgerkeep/accountapi/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	testUser := domain.User{
		ID:        1,
		Name:      randompkg.Name(),
		Email:     randompkg.Email(),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}

	type requestBody struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(t *testing.T, got domain.User)
	}{
		{
			name:        "OK",
			requestBody: requestBody{Name: testUser.Name, Email: testUser.Email},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(testUser.Name), gomock.Eq(testUser.Email)).
					Times(1).
					Return(testUser, nil)
			},
			wantStatusCode: http.StatusCreated,
			checkData: func(t *testing.T, got domain.User) {
				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(testUser, got, compareCreatedAt); diff != "" {
					t.Errorf("res.Data.User mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:        "MissingName",
			requestBody: requestBody{Email: testUser.Email},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Name is required",
		},
		{
			name:        "InvalidEmail",
			requestBody: requestBody{Name: testUser.Name, Email: "not-an-email"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Email must be a valid email",
		},
		{
			name:        "EmailAlreadyExists",
			requestBody: requestBody{Name: testUser.Name, Email: testUser.Email},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(testUser.Name), gomock.Eq(testUser.Email)).
					Times(1).
					Return(domain.User{}, domain.ErrEmailAlreadyExists)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrEmailAlreadyExists.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			handler := NewHandler(service)
			router := gin.New()
			router.POST("/users", handler.Create)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("json.Marshal(%v) returned error: %v", tc.requestBody, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
			router.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("status code = %v, want %v, body: %v", recorder.Code, tc.wantStatusCode, recorder.Body)
			}

			if tc.wantError != "" {
				var res web.JSONError
				if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
					t.Fatalf("json.Unmarshal(%v) returned error: %v", recorder.Body, err)
				}

				if res.Error != tc.wantError {
					t.Errorf("res.Error = %q, want %q", res.Error, tc.wantError)
				}

				return
			}

			var res struct {
				Data struct {
					User domain.User `json:"user"`
				} `json:"data"`
			}
			if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
				t.Fatalf("json.Unmarshal(%v) returned error: %v", recorder.Body, err)
			}

			tc.checkData(t, res.Data.User)
		})
	}
}
