package statement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellecer/quetzal/internal/statement"
	"github.com/lpellecer/quetzal/internal/transaction"
)

func TestIndustrialUSDChecking_ParsesWithAndWithoutReference(t *testing.T) {
	text := `ESTADO DE CUENTA MONETARIA DOLARES
Fecha Referencia Descripción Débito Crédito Saldo
05/03/2024 784512 WIRE TRANSFER IN 1,000.00 3,450.75
07/03/2024 CHEQUE PAGADO 250.00 3,200.75
`

	p := statement.NewIndustrialUSDChecking()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, date(2024, 3, 5), res.Records[0].Date)
	assert.Equal(t, "WIRE TRANSFER IN", res.Records[0].Description)
	assert.Equal(t, int64(100000), res.Records[0].Amount)
	assert.Equal(t, transaction.TypeCredit, res.Records[0].Type)
	assert.Equal(t, transaction.CurrencyUSD, res.Records[0].Currency)

	assert.Equal(t, "CHEQUE PAGADO", res.Records[1].Description)
	assert.Equal(t, int64(25000), res.Records[1].Amount)
	assert.Equal(t, transaction.TypeDebit, res.Records[1].Type)
}

func TestIndustrialUSDChecking_NoConversionToGTQ(t *testing.T) {
	text := `Fecha Descripción Saldo
05/03/2024 1 DEPOSITO USD 100.00 100.00
`

	p := statement.NewIndustrialUSDChecking()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	// 100 USD stays 10000 cents of USD, not quetzales.
	assert.Equal(t, int64(10000), res.Records[0].Amount)
	assert.Equal(t, transaction.CurrencyUSD, res.Records[0].Currency)
}

func TestIndustrialUSDChecking_WrongLayout(t *testing.T) {
	p := statement.NewIndustrialUSDChecking()

	_, err := p.ExtractData("nothing resembling a statement here", statement.Options{})
	assert.ErrorIs(t, err, statement.ErrUnsupportedFormat)
}
