package statement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellecer/quetzal/internal/statement"
	"github.com/lpellecer/quetzal/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestIndustrialChecking_LedgerDirectionFromBalance(t *testing.T) {
	text := `ESTADO DE CUENTA MONETARIA
Fecha Docto. Descripción Débito Crédito Saldo
01/03/2024 1001 DEPOSITO EN EFECTIVO 1,000.00 2,200.00
05/03/2024 1002 CHEQUE PAGADO 350.00 1,850.00
10/03/2024 1003 PAGO PLANILLA 5,500.00 7,350.00
TOTALES: 6,850.00
`

	p := statement.NewIndustrialChecking()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	// First row has no prior balance to compare against; defaults to credit.
	assert.Equal(t, date(2024, 3, 1), res.Records[0].Date)
	assert.Equal(t, "DEPOSITO EN EFECTIVO", res.Records[0].Description)
	assert.Equal(t, int64(100000), res.Records[0].Amount)
	assert.Equal(t, transaction.TypeCredit, res.Records[0].Type)
	assert.Equal(t, transaction.CurrencyGTQ, res.Records[0].Currency)

	// Balance dropped: debit.
	assert.Equal(t, transaction.TypeDebit, res.Records[1].Type)
	assert.Equal(t, int64(35000), res.Records[1].Amount)

	// Balance rose again: credit.
	assert.Equal(t, transaction.TypeCredit, res.Records[2].Type)
	assert.Equal(t, int64(550000), res.Records[2].Amount)
}

func TestIndustrialChecking_CompactLineWithMarker(t *testing.T) {
	text := `Fecha Descripción Saldo
01/03/2024  SUPERMERCADO LA TORRE  Q125.50
DB
`

	p := statement.NewIndustrialChecking()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, date(2024, 3, 1), rec.Date)
	assert.Equal(t, "SUPERMERCADO LA TORRE", rec.Description)
	assert.Equal(t, int64(12550), rec.Amount)
	assert.Equal(t, transaction.TypeDebit, rec.Type)
}

func TestIndustrialChecking_BalanceForwardExcluded(t *testing.T) {
	text := `Fecha Docto. Descripción Saldo
SALDO ANTERIOR .......... Q1,200.00
01/03/2024 1001 DEPOSITO 100.00 1,300.00
`

	p := statement.NewIndustrialChecking()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "DEPOSITO", res.Records[0].Description)
}

func TestIndustrialChecking_SkipsMalformedLineAndContinues(t *testing.T) {
	text := `Fecha Docto. Descripción Saldo
32/13/2024 1001 DIA IMPOSIBLE 100.00 1,300.00
01/03/2024 1002 DEPOSITO VALIDO 100.00 1,300.00
`

	p := statement.NewIndustrialChecking()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	assert.Equal(t, "DEPOSITO VALIDO", res.Records[0].Description)
	assert.Equal(t, 1, res.SkippedLines)
}

func TestIndustrialChecking_OrderPreservedAndIdempotent(t *testing.T) {
	text := `Fecha Docto. Descripción Saldo
01/03/2024 1 PRIMERO 10.00 110.00
02/03/2024 2 SEGUNDO 10.00 100.00
03/03/2024 3 TERCERO 10.00 110.00
`

	p := statement.NewIndustrialChecking()

	first, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)

	second, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)

	require.Len(t, first.Records, 3)
	assert.Equal(t, "PRIMERO", first.Records[0].Description)
	assert.Equal(t, "SEGUNDO", first.Records[1].Description)
	assert.Equal(t, "TERCERO", first.Records[2].Description)
	assert.Equal(t, first, second)
}

func TestIndustrialChecking_AmountsAlwaysPositive(t *testing.T) {
	text := `Fecha Docto. Descripción Saldo
01/03/2024 1 RETIRO CAJERO 500.00 500.00
02/03/2024 2 OTRO RETIRO 200.00 300.00
`

	p := statement.NewIndustrialChecking()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)

	for _, rec := range res.Records {
		assert.Positive(t, rec.Amount)
	}
}

func TestIndustrialChecking_WrongDocumentLayout(t *testing.T) {
	p := statement.NewIndustrialChecking()

	_, err := p.ExtractData("Estimado cliente, le informamos sobre nuestros nuevos productos.", statement.Options{})
	assert.ErrorIs(t, err, statement.ErrUnsupportedFormat)
}

func TestIndustrialChecking_EmptyStatementWithHeadersIsNotAnError(t *testing.T) {
	text := `Fecha Docto. Descripción Débito Crédito Saldo
SALDO ANTERIOR 0.00
`

	p := statement.NewIndustrialChecking()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestIndustrialChecking_SecondaryHolderTagging(t *testing.T) {
	text := `Fecha Docto. Descripción Saldo
01/03/2024 1 DEPOSITO 10.00 110.00
`

	p := statement.NewIndustrialChecking()
	res, err := p.ExtractData(text, statement.Options{SecondaryHolder: true})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, transaction.HolderSecondary, res.Records[0].Holder)
}
