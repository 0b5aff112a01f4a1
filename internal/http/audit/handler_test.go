package audit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/audit"
	auditHandler "github.com/MrJamesThe3rd/docket/internal/http/audit"
)

func TestHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setupMock  func(m *audit.MockRepository)
		wantStatus int
		wantLen    int
	}{
		{
			name:  "DefaultLimit",
			query: "",
			setupMock: func(m *audit.MockRepository) {
				m.EXPECT().ListEntries(gomock.Any(), audit.ListFilter{Limit: 200}).Return([]*audit.Entry{
					{ID: uuid.New(), Timestamp: time.Now(), Action: "salary.create", Details: "x"},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantLen:    1,
		},
		{
			name:  "ActionAndLimit",
			query: "?action=payroll.&limit=5",
			setupMock: func(m *audit.MockRepository) {
				m.EXPECT().ListEntries(gomock.Any(), audit.ListFilter{Action: "payroll.", Limit: 5}).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantLen:    0,
		},
		{
			name:       "BadLimit",
			query:      "?limit=-1",
			setupMock:  func(*audit.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "StoreDown",
			query: "",
			setupMock: func(m *audit.MockRepository) {
				m.EXPECT().ListEntries(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrStorageUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := audit.NewMockRepository(gomock.NewController(t))
			tt.setupMock(repo)

			r := chi.NewRouter()
			r.Route("/audit", auditHandler.NewHandler(audit.NewService(repo)).Routes)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/"+tt.query, nil))
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var body []map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body, tt.wantLen)
		})
	}
}
