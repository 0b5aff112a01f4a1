package document_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/document"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
)

func clock() time.Time {
	return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
}

var today = datefmt.New(2024, time.June, 1)

func newService(t *testing.T) (*document.Service, *document.MockRepository, *document.MockFiles, *document.MockAuditor) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := document.NewMockRepository(ctrl)
	files := document.NewMockFiles(ctrl)
	audit := document.NewMockAuditor(ctrl)

	return document.NewService(repo, files, audit).WithClock(clock), repo, files, audit
}

func validParams() document.CreateParams {
	return document.CreateParams{
		Name:      " Trade licence ",
		Number:    "TL-001",
		IssueDate: datefmt.New(2023, time.January, 10),
		Issuer:    "Municipality",
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    func() document.CreateParams
		setupMock func(m *document.MockRepository, a *document.MockAuditor)
		wantErr   error
		wantField string
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams,
			setupMock: func(m *document.MockRepository, a *document.MockAuditor) {
				m.EXPECT().
					CreateDocument(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *document.Document) error {
						assert.Equal(t, "Trade licence", d.Name)
						d.ID = uuid.New()
						return nil
					})
				a.EXPECT().Record(gomock.Any(), "document.create", gomock.Any())
			},
		},
		{
			name: "MissingIssuer",
			params: func() document.CreateParams {
				p := validParams()
				p.Issuer = "  "
				return p
			},
			setupMock: func(*document.MockRepository, *document.MockAuditor) {},
			wantErr:   apperror.ErrMissingRequiredField,
			wantField: "issuer",
		},
		{
			name: "MissingIssueDate",
			params: func() document.CreateParams {
				p := validParams()
				p.IssueDate = datefmt.Date{}
				return p
			},
			setupMock: func(*document.MockRepository, *document.MockAuditor) {},
			wantErr:   apperror.ErrMissingRequiredField,
			wantField: "issue_date",
		},
		{
			name:   "DuplicateNumber",
			params: validParams,
			setupMock: func(m *document.MockRepository, _ *document.MockAuditor) {
				m.EXPECT().
					CreateDocument(gomock.Any(), gomock.Any()).
					Return(apperror.Duplicate("document_number"))
			},
			wantErr:   apperror.ErrDuplicateKey,
			wantField: "document_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, audit := newService(t)
			tt.setupMock(repo, audit)

			got, err := svc.Create(context.Background(), tt.params())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				var fe *apperror.FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantField, fe.Field)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc, repo, _, _ := newService(t)
	repo.EXPECT().UpdateDocument(gomock.Any(), gomock.Any()).Return(apperror.ErrNotFound)

	_, err := svc.Update(context.Background(), uuid.New(), validParams())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_Search_StatusFilter(t *testing.T) {
	expired := datefmt.New(2024, time.May, 1)
	soon := datefmt.New(2024, time.July, 1)
	later := datefmt.New(2025, time.July, 1)

	docs := []*document.Document{
		{Name: "expired", ExpiryDate: &expired},
		{Name: "soon", ExpiryDate: &soon},
		{Name: "later", ExpiryDate: &later},
		{Name: "open"},
	}

	tests := []struct {
		status expiry.Status
		want   []string
	}{
		{status: "", want: []string{"expired", "soon", "later", "open"}},
		{status: expiry.StatusExpired, want: []string{"expired"}},
		{status: expiry.StatusNearExpiry, want: []string{"soon"}},
		{status: expiry.StatusValid, want: []string{"later", "open"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			svc, repo, _, _ := newService(t)
			filter := document.SearchFilter{Keyword: "x", Status: tt.status}
			repo.EXPECT().SearchDocuments(gomock.Any(), filter).Return(docs, nil)

			got, err := svc.Search(context.Background(), filter)
			require.NoError(t, err)

			var names []string
			for _, d := range got {
				names = append(names, d.Name)
			}

			assert.Equal(t, tt.want, names)
		})
	}
}

func TestService_ExpiryAlert(t *testing.T) {
	svc, repo, _, _ := newService(t)
	repo.EXPECT().
		CountExpiring(gomock.Any(), today, datefmt.New(2024, time.August, 30)).
		Return(expiry.Summary{Expired: 2, NearExpiry: 1}, nil)

	sum, err := svc.ExpiryAlert(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Expired)
	assert.Equal(t, 1, sum.NearExpiry)
}

func TestService_Remaining(t *testing.T) {
	a := datefmt.New(2025, time.January, 1)
	b := datefmt.New(2024, time.May, 20)
	c := datefmt.New(2024, time.June, 11)

	svc, repo, _, _ := newService(t)
	repo.EXPECT().SearchDocuments(gomock.Any(), document.SearchFilter{}).Return([]*document.Document{
		{Name: "a", ExpiryDate: &a},
		{Name: "none"},
		{Name: "b", ExpiryDate: &b},
		{Name: "c", ExpiryDate: &c},
	}, nil)

	items, err := svc.Remaining(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "b", items[0].Document.Name)
	assert.Equal(t, expiry.StatusExpired, items[0].Status)
	assert.Equal(t, "expired", items[0].Remaining)

	assert.Equal(t, "c", items[1].Document.Name)
	assert.Equal(t, expiry.StatusNearExpiry, items[1].Status)
	assert.Equal(t, "0 years, 0 months, 10 days", items[1].Remaining)

	assert.Equal(t, "a", items[2].Document.Name)
	assert.Equal(t, expiry.StatusValid, items[2].Status)
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()
	attachments := []*document.Attachment{
		{ID: uuid.New(), DocumentID: id, Path: "/tmp/a.pdf"},
		{ID: uuid.New(), DocumentID: id, Path: "/tmp/b.pdf"},
	}

	t.Run("RemovesFilesAfterRow", func(t *testing.T) {
		svc, repo, files, audit := newService(t)

		gomock.InOrder(
			repo.EXPECT().ListAttachments(gomock.Any(), id).Return(attachments, nil),
			repo.EXPECT().DeleteDocument(gomock.Any(), id).Return(nil),
			files.EXPECT().Remove("/tmp/a.pdf").Return(nil),
			files.EXPECT().Remove("/tmp/b.pdf").Return(errors.New("busy")),
		)
		audit.EXPECT().Record(gomock.Any(), "document.delete", gomock.Any())

		assert.NoError(t, svc.Delete(context.Background(), id))
	})

	t.Run("NotFoundKeepsFiles", func(t *testing.T) {
		svc, repo, _, _ := newService(t)

		repo.EXPECT().ListAttachments(gomock.Any(), id).Return(attachments, nil)
		repo.EXPECT().DeleteDocument(gomock.Any(), id).Return(apperror.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), id), apperror.ErrNotFound)
	})
}

func TestService_Attach(t *testing.T) {
	ctx := context.Background()
	docID := uuid.New()

	src := filepath.Join(t.TempDir(), "contract.txt")
	require.NoError(t, os.WriteFile(src, []byte("signed contract\n"), 0o644))

	t.Run("CopiesAndLinks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := document.NewMockRepository(ctrl)
		audit := document.NewMockAuditor(ctrl)
		dir := t.TempDir()
		svc := document.NewService(repo, document.NewFileStore(dir), audit)

		repo.EXPECT().GetDocument(ctx, docID).Return(&document.Document{ID: docID}, nil)
		repo.EXPECT().CreateAttachment(ctx, gomock.Any()).Return(nil)
		audit.EXPECT().Record(ctx, "attachment.create", gomock.Any())

		a, err := svc.Attach(ctx, docID, src)
		require.NoError(t, err)

		assert.Equal(t, docID, a.DocumentID)
		assert.Equal(t, "contract.txt", a.Filename)
		assert.Equal(t, dir, filepath.Dir(a.Path))
		assert.True(t, strings.HasSuffix(a.Path, "_contract.txt"))
		assert.Equal(t, "text/plain; charset=utf-8", a.ContentType)

		data, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, "signed contract\n", string(data))
	})

	t.Run("UnknownDocument", func(t *testing.T) {
		svc, repo, _, _ := newService(t)
		repo.EXPECT().GetDocument(ctx, docID).Return(nil, apperror.ErrNotFound)

		_, err := svc.Attach(ctx, docID, src)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("RemovesFileWhenLinkFails", func(t *testing.T) {
		svc, repo, files, _ := newService(t)
		stored := &document.StoredFile{Filename: "contract.txt", Path: "/data/x_contract.txt", ContentType: "text/plain"}

		repo.EXPECT().GetDocument(ctx, docID).Return(&document.Document{ID: docID}, nil)
		files.EXPECT().Save(src, gomock.Any()).Return(stored, nil)
		repo.EXPECT().CreateAttachment(ctx, gomock.Any()).Return(apperror.ErrStorageUnavailable)
		files.EXPECT().Remove("/data/x_contract.txt").Return(nil)

		_, err := svc.Attach(ctx, docID, src)
		assert.ErrorIs(t, err, apperror.ErrStorageUnavailable)
	})
}

func TestService_DeleteAttachment(t *testing.T) {
	ctx := context.Background()
	a := &document.Attachment{ID: uuid.New(), DocumentID: uuid.New(), Filename: "scan.pdf", Path: "/data/scan.pdf"}

	svc, repo, files, audit := newService(t)

	gomock.InOrder(
		repo.EXPECT().GetAttachment(ctx, a.ID).Return(a, nil),
		repo.EXPECT().DeleteAttachment(ctx, a.ID).Return(nil),
		files.EXPECT().Remove(a.Path).Return(nil),
	)
	audit.EXPECT().Record(ctx, "attachment.delete", gomock.Any())

	assert.NoError(t, svc.DeleteAttachment(ctx, a.ID))
}

func TestService_DeleteAttachments(t *testing.T) {
	ctx := context.Background()
	doc := &document.Document{ID: uuid.New(), Name: "Passport", Number: "P-1"}
	attachments := []*document.Attachment{
		{ID: uuid.New(), DocumentID: doc.ID, Filename: "front.jpg", Path: "/data/front.jpg"},
		{ID: uuid.New(), DocumentID: doc.ID, Filename: "back.jpg", Path: "/data/back.jpg"},
	}

	t.Run("RemovesRowsThenFiles", func(t *testing.T) {
		svc, repo, files, audit := newService(t)

		gomock.InOrder(
			repo.EXPECT().GetDocument(ctx, doc.ID).Return(doc, nil),
			repo.EXPECT().DeleteAttachments(ctx, doc.ID).Return(attachments, nil),
			files.EXPECT().Remove("/data/front.jpg").Return(nil),
			files.EXPECT().Remove("/data/back.jpg").Return(errors.New("busy")),
		)
		audit.EXPECT().Record(ctx, "attachment.delete_all", "removed 2 attachment(s) from document P-1 (Passport)")

		n, err := svc.DeleteAttachments(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("NoAttachments", func(t *testing.T) {
		svc, repo, _, audit := newService(t)

		repo.EXPECT().GetDocument(ctx, doc.ID).Return(doc, nil)
		repo.EXPECT().DeleteAttachments(ctx, doc.ID).Return(nil, nil)
		audit.EXPECT().Record(ctx, "attachment.delete_all", gomock.Any())

		n, err := svc.DeleteAttachments(ctx, doc.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("UnknownDocument", func(t *testing.T) {
		svc, repo, _, _ := newService(t)

		repo.EXPECT().GetDocument(ctx, doc.ID).Return(nil, apperror.ErrNotFound)

		_, err := svc.DeleteAttachments(ctx, doc.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("StoreFailureKeepsFiles", func(t *testing.T) {
		svc, repo, _, _ := newService(t)

		repo.EXPECT().GetDocument(ctx, doc.ID).Return(doc, nil)
		repo.EXPECT().DeleteAttachments(ctx, doc.ID).Return(nil, apperror.ErrStorageUnavailable)

		_, err := svc.DeleteAttachments(ctx, doc.ID)
		assert.ErrorIs(t, err, apperror.ErrStorageUnavailable)
	})
}
