package document_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/document"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
	documentHandler "github.com/MrJamesThe3rd/docket/internal/http/document"
)

func clock() time.Time {
	return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
}

type fixture struct {
	router http.Handler
	repo   *document.MockRepository
	audit  *document.MockAuditor
	dir    string
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		repo:  document.NewMockRepository(ctrl),
		audit: document.NewMockAuditor(ctrl),
		dir:   t.TempDir(),
	}

	svc := document.NewService(f.repo, document.NewFileStore(f.dir), f.audit).WithClock(clock)

	r := chi.NewRouter()
	r.Route("/documents", documentHandler.NewHandler(svc).Routes)
	f.router = r

	return f
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func date(y int, m time.Month, d int) *datefmt.Date {
	return datefmt.New(y, m, d).Ptr()
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *document.MockRepository, a *document.MockAuditor)
		wantStatus int
		wantField  string
	}{
		{
			name: "WithExpiry",
			body: `{"name":"Trade licence","document_number":"TL-1","issue_date":"10-01-2023","expiry_date":"11-06-2024","issuer":"Municipality"}`,
			setupMock: func(m *document.MockRepository, a *document.MockAuditor) {
				m.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *document.Document) error {
						d.ID = uuid.New()
						return nil
					})
				a.EXPECT().Record(gomock.Any(), "document.create", gomock.Any())
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "MissingIssuer",
			body:       `{"name":"Trade licence","document_number":"TL-1","issue_date":"10-01-2023"}`,
			setupMock:  func(*document.MockRepository, *document.MockAuditor) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "issuer",
		},
		{
			name:       "BadEmployeeID",
			body:       `{"name":"Permit","document_number":"P-1","issue_date":"10-01-2023","issuer":"Gov","employee_id":"7"}`,
			setupMock:  func(*document.MockRepository, *document.MockAuditor) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "employee_id",
		},
		{
			name: "DuplicateNumber",
			body: `{"name":"Permit","document_number":"P-1","issue_date":"10-01-2023","issuer":"Gov"}`,
			setupMock: func(m *document.MockRepository, _ *document.MockAuditor) {
				m.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).Return(apperror.Duplicate("document_number"))
			},
			wantStatus: http.StatusConflict,
			wantField:  "document_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f.repo, f.audit)

			rec := f.do(httptest.NewRequest(http.MethodPost, "/documents/", strings.NewReader(tt.body)))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "11-06-2024", body["expiry_date"])
				assert.Equal(t, string(expiry.StatusNearExpiry), body["status"])
				assert.Equal(t, "0 years, 0 months, 10 days", body["remaining"])

				return
			}

			assert.Equal(t, tt.wantField, body["field"])
		})
	}
}

func TestHandler_Search(t *testing.T) {
	docs := []*document.Document{
		{ID: uuid.New(), Name: "Old permit", Number: "A", ExpiryDate: date(2024, time.May, 1)},
		{ID: uuid.New(), Name: "Lease", Number: "B"},
		{ID: uuid.New(), Name: "Visa", Number: "C", ExpiryDate: date(2026, time.January, 1)},
	}

	t.Run("ExpiredOnly", func(t *testing.T) {
		f := setup(t)
		f.repo.EXPECT().SearchDocuments(gomock.Any(), document.SearchFilter{
			Keyword: "permit", Category: "Legal", Status: expiry.StatusExpired,
		}).Return(docs, nil)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/documents/?q=permit&category=Legal&status=expired", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "A", body[0]["document_number"])
		assert.Equal(t, "expired", body[0]["remaining"])
	})

	t.Run("ValidIncludesUndated", func(t *testing.T) {
		f := setup(t)
		f.repo.EXPECT().SearchDocuments(gomock.Any(), gomock.Any()).Return(docs, nil)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/documents/?status=valid", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, "N/A", body[0]["remaining"])
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		f := setup(t)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/documents/?status=soon", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Alerts(t *testing.T) {
	f := setup(t)
	f.repo.EXPECT().CountExpiring(gomock.Any(), datefmt.New(2024, time.June, 1), datefmt.New(2024, time.August, 30)).
		Return(expiry.Summary{Expired: 2, NearExpiry: 1}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/documents/alerts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Expired    int    `json:"expired"`
		NearExpiry int    `json:"near_expiry"`
		Message    string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Expired)
	assert.Equal(t, 1, body.NearExpiry)
	assert.Equal(t, "2 document(s) have expired.\n1 document(s) expire within 90 days.", body.Message)
}

func TestHandler_Remaining(t *testing.T) {
	f := setup(t)
	f.repo.EXPECT().SearchDocuments(gomock.Any(), document.SearchFilter{}).Return([]*document.Document{
		{ID: uuid.New(), Number: "LATE", ExpiryDate: date(2025, time.June, 1)},
		{ID: uuid.New(), Number: "NONE"},
		{ID: uuid.New(), Number: "SOON", ExpiryDate: date(2024, time.June, 11)},
	}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/documents/remaining", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)

	assert.Equal(t, "SOON", body[0]["document_number"])
	assert.Equal(t, "11-06-2024", body[0]["expiry_date"])
	assert.Equal(t, "LATE", body[1]["document_number"])
	assert.Equal(t, "1 year, 0 months, 0 days", body[1]["remaining"])
}

func TestHandler_Get_NotFound(t *testing.T) {
	f := setup(t)
	id := uuid.New()
	f.repo.EXPECT().GetDocument(gomock.Any(), id).Return(nil, apperror.ErrNotFound)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/documents/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Attachments(t *testing.T) {
	f := setup(t)
	docID := uuid.New()
	attID := uuid.New()

	var saved *document.Attachment

	f.repo.EXPECT().GetDocument(gomock.Any(), docID).Return(&document.Document{ID: docID}, nil)
	f.repo.EXPECT().CreateAttachment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *document.Attachment) error {
			a.ID = attID
			saved = a
			return nil
		})
	f.audit.EXPECT().Record(gomock.Any(), "attachment.create", gomock.Any())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "licence.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("licence scan"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents/"+docID.String()+"/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := f.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, saved)
	assert.Equal(t, f.dir, filepath.Dir(saved.Path))

	f.repo.EXPECT().GetAttachment(gomock.Any(), attID).Return(saved, nil)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/documents/attachments/"+attID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "licence scan", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename=licence.txt`)

	f.repo.EXPECT().GetAttachment(gomock.Any(), attID).Return(saved, nil)
	f.repo.EXPECT().DeleteAttachment(gomock.Any(), attID).Return(nil)
	f.audit.EXPECT().Record(gomock.Any(), "attachment.delete", gomock.Any())

	rec = f.do(httptest.NewRequest(http.MethodDelete, "/documents/attachments/"+attID.String(), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = os.Stat(saved.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestHandler_DeleteAllAttachments(t *testing.T) {
	t.Run("RemovesRowsAndFiles", func(t *testing.T) {
		f := setup(t)
		docID := uuid.New()

		var removed []*document.Attachment
		for _, name := range []string{"front.txt", "back.txt"} {
			path := filepath.Join(f.dir, name)
			require.NoError(t, os.WriteFile(path, []byte(name), 0o600))
			removed = append(removed, &document.Attachment{ID: uuid.New(), DocumentID: docID, Filename: name, Path: path})
		}

		f.repo.EXPECT().GetDocument(gomock.Any(), docID).Return(&document.Document{ID: docID, Number: "P-1"}, nil)
		f.repo.EXPECT().DeleteAttachments(gomock.Any(), docID).Return(removed, nil)
		f.audit.EXPECT().Record(gomock.Any(), "attachment.delete_all", gomock.Any())

		rec := f.do(httptest.NewRequest(http.MethodDelete, "/documents/"+docID.String()+"/attachments", nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())

		for _, a := range removed {
			_, err := os.Stat(a.Path)
			assert.True(t, os.IsNotExist(err), a.Path)
		}
	})

	t.Run("UnknownDocument", func(t *testing.T) {
		f := setup(t)
		docID := uuid.New()

		f.repo.EXPECT().GetDocument(gomock.Any(), docID).Return(nil, apperror.ErrNotFound)

		rec := f.do(httptest.NewRequest(http.MethodDelete, "/documents/"+docID.String()+"/attachments", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		f := setup(t)

		rec := f.do(httptest.NewRequest(http.MethodDelete, "/documents/nope/attachments", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_UploadWithoutFile(t *testing.T) {
	f := setup(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents/"+uuid.NewString()+"/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	assert.Equal(t, http.StatusBadRequest, f.do(req).Code)
}
