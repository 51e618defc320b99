package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lpellecer/quetzal/internal/transaction"
)

func TestService_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListEntries(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Entry{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListEntries(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_ImportBatch_AllNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []transaction.Record{
		{
			Date:                date,
			Description:         "SUPERMERCADO LA TORRE",
			OriginalDescription: "SUPERMERCADO LA TORRE",
			Amount:              12550,
			Type:                transaction.TypeDebit,
			AccountName:         "bi-monetaria",
			Currency:            transaction.CurrencyGTQ,
			Holder:              transaction.HolderPrimary,
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), records).Return(nil, nil)
	itx.EXPECT().CreateEntries(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), records)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Zero(t, result.Duplicates)
	assert.Equal(t, records[0], result.Imported[0].Record)
}

func TestService_ImportBatch_SkipsStoredDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	dup := transaction.Record{
		Date:                day1,
		Description:         "UBER TRIP",
		OriginalDescription: "UBER TRIP GUATEMALA",
		Amount:              3500,
		Type:                transaction.TypeDebit,
		AccountName:         "bam-visa",
		Currency:            transaction.CurrencyGTQ,
		Holder:              transaction.HolderPrimary,
	}
	fresh := transaction.Record{
		Date:                day2,
		Description:         "PAGO RECIBIDO",
		OriginalDescription: "PAGO RECIBIDO",
		Amount:              250000,
		Type:                transaction.TypeCredit,
		AccountName:         "bam-visa",
		Currency:            transaction.CurrencyGTQ,
		Holder:              transaction.HolderPrimary,
	}
	records := []transaction.Record{dup, fresh}

	existing := &transaction.Entry{ID: uuid.New(), Record: dup}

	repo.EXPECT().BeginImport(gomock.Any(), day1, day2).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), records).Return([]*transaction.Entry{existing}, nil)
	itx.EXPECT().
		CreateEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entries []*transaction.Entry) error {
			require.Len(t, entries, 1)
			assert.Equal(t, fresh, entries[0].Record)
			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), records)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, 1, result.Duplicates)
}

func TestService_ImportBatch_RepeatedRowsWithinBatchAreKept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	row := transaction.Record{
		Date:        date,
		Description: "CAFE BARISTA",
		Amount:      2500,
		Type:        transaction.TypeDebit,
		AccountName: "bi-visa",
		Currency:    transaction.CurrencyGTQ,
		Holder:      transaction.HolderPrimary,
	}
	records := []transaction.Record{row, row}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), records).Return(nil, nil)
	itx.EXPECT().CreateEntries(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	// Two coffees on the same day are two transactions, not a duplicate.
	result, err := svc.ImportBatch(context.Background(), records)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 2)
	assert.Zero(t, result.Duplicates)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Zero(t, result.Duplicates)
}

func TestService_ImportBatch_BeginError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []transaction.Record{{Date: date, Amount: 100, Type: transaction.TypeDebit}}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(nil, errors.New("db down"))

	_, err := svc.ImportBatch(context.Background(), records)
	assert.Error(t, err)
}
