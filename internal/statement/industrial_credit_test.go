package statement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellecer/quetzal/internal/statement"
	"github.com/lpellecer/quetzal/internal/transaction"
)

const biCreditSample = `ESTADO DE CUENTA TARJETA DE CREDITO
FECHA   TIPO DE MOVMIENTO   DOCTO   COMERCIO
02/03/2024 CONSUMO 4512879 RESTAURANTE ALTUNA Q. 312.00 Q. 1,512.00
05/03/2024 CONSUMO 4512911 FARMACIA GALENO Q. 89.50 Q. 1,601.50
15/03/2024 PAGO 7800122 PAGO EN AGENCIA Q. 1,000.00 Q. 601.50
FAVOR DE REVISAR SU ESTADO DE CUENTA
Saldo al final del periodo Q. 601.50
`

func TestIndustrialCredit_SignConvention(t *testing.T) {
	p := statement.NewIndustrialCredit()
	res, err := p.ExtractData(biCreditSample, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	// Purchases increase the balance owed: debits.
	assert.Equal(t, date(2024, 3, 2), res.Records[0].Date)
	assert.Equal(t, "RESTAURANTE ALTUNA", res.Records[0].Description)
	assert.Equal(t, int64(31200), res.Records[0].Amount)
	assert.Equal(t, transaction.TypeDebit, res.Records[0].Type)
	assert.Equal(t, transaction.CurrencyGTQ, res.Records[0].Currency)

	assert.Equal(t, transaction.TypeDebit, res.Records[1].Type)

	// Payments reduce it: credits.
	assert.Equal(t, transaction.TypeCredit, res.Records[2].Type)
	assert.Equal(t, int64(100000), res.Records[2].Amount)
}

func TestIndustrialCreditUSD_DollarVariant(t *testing.T) {
	text := `FECHA   TIPO DE MOVMIENTO   DOCTO   COMERCIO
10/03/2024 CONSUMO 5512000 AMAZON MKTPLACE $. 32.99 $. 532.99
20/03/2024 PAGO AGENC 9900134 PAGO RECIBIDO $. 500.00 $. 32.99
`

	p := statement.NewIndustrialCreditUSD()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, int64(3299), res.Records[0].Amount)
	assert.Equal(t, transaction.TypeDebit, res.Records[0].Type)
	assert.Equal(t, transaction.CurrencyUSD, res.Records[0].Currency)

	assert.Equal(t, transaction.TypeCredit, res.Records[1].Type)
}

func TestIndustrialCredit_UnknownMovementTypeRejectsDocument(t *testing.T) {
	text := `FECHA   TIPO DE MOVMIENTO   DOCTO   COMERCIO
02/03/2024 CONSUMO 4512879 RESTAURANTE ALTUNA Q. 312.00 Q. 1,512.00
03/03/2024 EXTORNO 4512880 AJUSTE DEL BANCO Q. 50.00 Q. 1,462.00
`

	p := statement.NewIndustrialCredit()

	_, err := p.ExtractData(text, statement.Options{})
	require.Error(t, err)

	var unknownErr *statement.UnknownMovementsError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, []string{"EXTORNO"}, unknownErr.Types)
}

func TestIndustrialCredit_SecondaryHolderSections(t *testing.T) {
	text := `FECHA   TIPO DE MOVMIENTO   DOCTO   COMERCIO
02/03/2024 CONSUMO 1000001 GASOLINERA SHELL Q. 200.00 Q. 200.00
TARJETA ADICIONAL 4111 **** 2222
04/03/2024 CONSUMO 1000002 LIBRERIA SOPHOS Q. 150.00 Q. 350.00
05/03/2024 CONSUMO 1000003 CINE OAKLAND Q. 80.00 Q. 430.00
TARJETA TITULAR 4111 **** 1111
08/03/2024 PAGO 1000004 PAGO EN AGENCIA Q. 430.00 Q. 0.00
`

	p := statement.NewIndustrialCredit()
	res, err := p.ExtractData(text, statement.Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	assert.Equal(t, transaction.HolderPrimary, res.Records[0].Holder)
	assert.Equal(t, transaction.HolderSecondary, res.Records[1].Holder)
	assert.Equal(t, transaction.HolderSecondary, res.Records[2].Holder)
	assert.Equal(t, transaction.HolderPrimary, res.Records[3].Holder)

	// Section order matches statement order; no interleaving.
	assert.Equal(t, "GASOLINERA SHELL", res.Records[0].Description)
	assert.Equal(t, "LIBRERIA SOPHOS", res.Records[1].Description)
	assert.Equal(t, "CINE OAKLAND", res.Records[2].Description)
	assert.Equal(t, "PAGO EN AGENCIA", res.Records[3].Description)
}

func TestIndustrialCredit_SecondaryHolderOptionIsBaseline(t *testing.T) {
	text := `FECHA   TIPO DE MOVMIENTO   DOCTO   COMERCIO
02/03/2024 CONSUMO 1000001 GASOLINERA SHELL Q. 200.00 Q. 200.00
`

	p := statement.NewIndustrialCredit()
	res, err := p.ExtractData(text, statement.Options{SecondaryHolder: true})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, transaction.HolderSecondary, res.Records[0].Holder)
}

func TestIndustrialCredit_WrongLayout(t *testing.T) {
	p := statement.NewIndustrialCredit()

	_, err := p.ExtractData("carta de bienvenida sin transacciones", statement.Options{})
	assert.ErrorIs(t, err, statement.ErrUnsupportedFormat)
}
