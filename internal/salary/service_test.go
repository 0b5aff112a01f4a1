package salary_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

var paid = datefmt.New(2024, time.June, 1)

func validParams() salary.CreateParams {
	return salary.CreateParams{
		EmployeeID:    uuid.New(),
		Basic:         decimal.NewFromInt(5000),
		Allowances:    decimal.NewFromInt(200),
		Deductions:    decimal.NewFromInt(150),
		PaymentMethod: salary.PaymentBankTransfer,
		PaymentDate:   paid,
	}
}

func TestService_Create(t *testing.T) {
	type args struct {
		params func() salary.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *salary.MockRepository, a *salary.MockAuditor)
		wantNet   string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: validParams},
			setupMock: func(m *salary.MockRepository, a *salary.MockAuditor) {
				m.EXPECT().
					CreateRecord(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *salary.Record) error {
						r.ID = uuid.New()
						return nil
					})
				a.EXPECT().Record(gomock.Any(), "salary.create", gomock.Any())
			},
			wantNet: "5050.00",
		},
		{
			name: "ZeroAmountsAreValid",
			args: args{params: func() salary.CreateParams {
				p := validParams()
				p.Basic, p.Allowances, p.Deductions = decimal.Zero, decimal.Zero, decimal.Zero
				return p
			}},
			setupMock: func(m *salary.MockRepository, a *salary.MockAuditor) {
				m.EXPECT().CreateRecord(gomock.Any(), gomock.Any()).Return(nil)
				a.EXPECT().Record(gomock.Any(), "salary.create", gomock.Any())
			},
			wantNet: "0.00",
		},
		{
			name: "MissingEmployee",
			args: args{params: func() salary.CreateParams {
				p := validParams()
				p.EmployeeID = uuid.Nil
				return p
			}},
			wantErr: apperror.ErrMissingRequiredField,
		},
		{
			name: "MissingPaymentDate",
			args: args{params: func() salary.CreateParams {
				p := validParams()
				p.PaymentDate = datefmt.Date{}
				return p
			}},
			wantErr: apperror.ErrMissingRequiredField,
		},
		{
			name: "UnknownPaymentMethod",
			args: args{params: func() salary.CreateParams {
				p := validParams()
				p.PaymentMethod = "cheque"
				return p
			}},
			wantErr: apperror.ErrInvalidFormat,
		},
		{
			name: "NegativeDeductions",
			args: args{params: func() salary.CreateParams {
				p := validParams()
				p.Deductions = decimal.NewFromInt(-1)
				return p
			}},
			wantErr: apperror.ErrInvalidFormat,
		},
		{
			name: "UnknownEmployee",
			args: args{params: validParams},
			setupMock: func(m *salary.MockRepository, _ *salary.MockAuditor) {
				m.EXPECT().
					CreateRecord(gomock.Any(), gomock.Any()).
					Return(&apperror.FieldError{Kind: apperror.ErrForeignKeyViolation, Field: "employee_id"})
			},
			wantErr: apperror.ErrForeignKeyViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := salary.NewMockRepository(ctrl)
			auditor := salary.NewMockAuditor(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, auditor)
			}

			svc := salary.NewService(repo, auditor)
			got, err := svc.Create(context.Background(), tt.args.params())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNet, got.Net.StringFixed(2))
		})
	}
}

func TestService_Update_RecomputesNet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := salary.NewMockRepository(ctrl)
	auditor := salary.NewMockAuditor(ctrl)
	svc := salary.NewService(repo, auditor)

	id := uuid.New()
	params := validParams()
	params.Allowances = decimal.RequireFromString("300")
	params.Deductions = decimal.RequireFromString("100")
	params.Basic = decimal.RequireFromString("4000")

	repo.EXPECT().
		UpdateRecord(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *salary.Record) error {
			assert.Equal(t, id, r.ID)
			assert.Equal(t, "4200.00", r.Net.StringFixed(2))
			return nil
		})
	auditor.EXPECT().Record(gomock.Any(), "salary.update", gomock.Any())

	got, err := svc.Update(context.Background(), id, params)
	require.NoError(t, err)
	assert.Equal(t, "48000.00", got.AnnualBasic().StringFixed(2))
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := salary.NewMockRepository(ctrl)
	auditor := salary.NewMockAuditor(ctrl)
	svc := salary.NewService(repo, auditor)

	id := uuid.New()

	repo.EXPECT().DeleteRecord(gomock.Any(), id).Return(errors.New("db error"))
	assert.Error(t, svc.Delete(context.Background(), id))

	repo.EXPECT().DeleteRecord(gomock.Any(), id).Return(nil)
	auditor.EXPECT().Record(gomock.Any(), "salary.delete", gomock.Any())
	assert.NoError(t, svc.Delete(context.Background(), id))
}
