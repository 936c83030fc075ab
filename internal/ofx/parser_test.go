package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240122120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024012201
<NAME>PAYROLL DEPOSIT
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParser_ParseBankStatement(t *testing.T) {
	p := NewParser(nil)

	entries, err := p.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	first := entries[0]
	assert.Equal(t, "STARBUCKS STORE #1234", first.Payee)
	assert.Equal(t, "2024011501", first.FitID)
	assert.Equal(t, "1234567890", first.Account)
	assert.Equal(t, "DEBIT", first.Type)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-25.50")))
	assert.True(t, first.IsDebit())
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), first.Date.UTC())

	deposit := entries[2]
	assert.Equal(t, "PAYROLL DEPOSIT", deposit.Payee)
	assert.False(t, deposit.IsDebit())
}

func TestParser_ParseCreditCardStatement(t *testing.T) {
	p := NewParser(nil)

	entries, err := p.ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "4111111111111111", entries[0].Account)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", entries[0].Payee)
}

func TestParser_Preprocess(t *testing.T) {
	p := NewParser(nil)

	// Leading blank lines before the header are tolerated.
	messy := "\n\n  " + sampleCreditCardOFX
	entries, err := p.ParseFile(context.Background(), strings.NewReader(messy))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestParser_Invalid(t *testing.T) {
	p := NewParser(nil)

	_, err := p.ParseFile(context.Background(), strings.NewReader("not an ofx file"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse OFX file")
}

func TestParser_CancelledContext(t *testing.T) {
	p := NewParser(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ParseFile(ctx, strings.NewReader(sampleBankOFX))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDrafts(t *testing.T) {
	entries := []Entry{
		{Payee: "Coffee", Amount: decimal.RequireFromString("-4.5")},
		{Payee: "Salary", Amount: decimal.RequireFromString("2000")},
		{Payee: "", Amount: decimal.RequireFromString("-10")},
		{Payee: "Refund", Amount: decimal.Zero},
	}

	assert.Equal(t, []model.NewExpense{
		{Category: "Coffee", Amount: "4.50"},
		{Category: Uncategorized, Amount: "10.00"},
	}, Drafts(entries))
}

func TestDrafts_FromStatement(t *testing.T) {
	entries, err := NewParser(nil).ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	drafts := Drafts(entries)
	require.Len(t, drafts, 3)
	assert.Equal(t, model.NewExpense{Category: "Whole Foods Market", Amount: "125.00"}, drafts[1])
	for _, d := range drafts {
		assert.NoError(t, d.Validate())
	}
}

func TestExtractPayee(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Whole Foods Market", want: "Whole Foods Market"},
		{name: "pos prefix", in: "POS PURCHASE SHELL OIL", want: "SHELL OIL"},
		{name: "leading date", in: "01/15 CORNER DELI", want: "CORNER DELI"},
		{name: "whitespace", in: "  NETFLIX.COM  ", want: "NETFLIX.COM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPayee(ofxTransaction(tt.in, "")))
		})
	}

	t.Run("generic name falls back to memo", func(t *testing.T) {
		assert.Equal(t, "CITY PARKING", extractPayee(ofxTransaction("DEBIT", "CITY PARKING")))
	})
}

func ofxTransaction(name, memo string) ofxgo.Transaction {
	return ofxgo.Transaction{
		Name: ofxgo.String(name),
		Memo: ofxgo.String(memo),
	}
}

func TestParser_PreprocessFixes(t *testing.T) {
	p := NewParser(nil)

	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>", p.preprocessOFX("<SEVERITY>Info</SEVERITY>"))
	assert.Equal(t, "<STATUS>\n<CODE>\n0", p.preprocessOFX("\n <STATUS>\n<CODE\n0"))
}
