package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/wallet-dev/wallet/internal/model"
)

// QFXParser parses QFX/QBO statement exports. Despite the OFX spec,
// bank exports in this family are not well-formed XML: scalar fields
// have no closing tags and blocks mix markup with free text, so the
// parser scans for tag markers instead of using an XML decoder.
type QFXParser struct{}

const (
	tagTranList  = "BANKTRANLIST"
	tagLedgerBal = "LEDGERBAL"
	tagRecord    = "STMTTRN"
	tagType      = "TRNTYPE"
	tagAmount    = "TRNAMT"
	tagName      = "NAME"
	tagMemo      = "MEMO"
	tagFitID     = "FITID"
	tagRefNum    = "CHECKNUM"
	tagPosted    = "DTPOSTED"
	tagBalAmount = "BALAMT"
	tagBalAsOf   = "DTASOF"
)

// Format returns the parser name.
func (p *QFXParser) Format() string { return "qfx" }

// Parse reads a full statement from r.
func (p *QFXParser) Parse(r io.Reader) (*Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return p.parse(string(data))
}

// ParseFile reads a full statement from the file at path.
func (p *QFXParser) ParseFile(path string) (*Statement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement %s: %w", path, err)
	}
	return p.parse(string(data))
}

func (p *QFXParser) parse(text string) (*Statement, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	list, err := extractBlock(text, tagTranList)
	if err != nil {
		return nil, err
	}
	blocks, err := splitRecords(list)
	if err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, 0, len(blocks))
	for i, block := range blocks {
		txn, err := buildTransaction(block)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		txns = append(txns, txn)
	}

	balBlock, err := extractBlock(text, tagLedgerBal)
	if err != nil {
		return nil, err
	}
	balance, err := buildBalance(balBlock)
	if err != nil {
		return nil, err
	}

	return &Statement{Transactions: txns, Balance: balance}, nil
}

// extractBlock returns the substring of text from <tag> through </tag>
// inclusive. Content between the markers is taken verbatim, so literal
// punctuation and bracketed timezone annotations pass through.
func extractBlock(text, tag string) (string, error) {
	open := "<" + tag + ">"
	i := strings.Index(text, open)
	if i < 0 {
		return "", &ParseError{What: tag + " block not found"}
	}
	rest := text[i:]
	end := "</" + tag + ">"
	j := strings.Index(rest, end)
	if j < 0 {
		return "", &ParseError{What: tag + " block not terminated"}
	}
	return rest[:j+len(end)], nil
}

// splitRecords returns the ordered <STMTTRN> blocks inside the
// transaction list region. Zero records is a valid result.
func splitRecords(list string) ([]string, error) {
	open := "<" + tagRecord + ">"
	end := "</" + tagRecord + ">"

	var blocks []string
	for {
		i := strings.Index(list, open)
		if i < 0 {
			return blocks, nil
		}
		rest := list[i:]
		j := strings.Index(rest, end)
		if j < 0 {
			return nil, &ParseError{What: fmt.Sprintf("%s record %d not terminated", tagRecord, len(blocks)+1)}
		}
		blocks = append(blocks, rest[:j+len(end)])
		list = rest[j+len(end):]
	}
}

// scanField returns the trimmed scalar value of <tag> inside block.
// The value runs to the next newline or the next tag marker, whichever
// comes first; fields are not assumed to carry closing tags.
func scanField(block, tag string) (string, error) {
	open := "<" + tag + ">"
	i := strings.Index(block, open)
	if i < 0 {
		return "", &ParseError{What: "field " + tag + " not found"}
	}
	rest := block[i+len(open):]
	end := len(rest)
	if j := strings.IndexAny(rest, "\n<"); j >= 0 {
		end = j
	}
	value := strings.TrimFunc(rest[:end], func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	return value, nil
}

// scanDecimal parses <tag> as a signed decimal amount.
func scanDecimal(block, tag string) (decimal.Decimal, error) {
	raw, err := scanField(block, tag)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &ParseError{What: "field " + tag, Err: err}
	}
	return d, nil
}

// DecodeStamp converts a compact statement timestamp
// (YYYYMMDDHHMMSS, optionally followed by fractional seconds and a
// bracketed timezone annotation) into a wall-clock time. The suffix is
// ignored, never converted: the calendar components are kept literally.
func DecodeStamp(stamp string) (time.Time, error) {
	const width = 14
	if len(stamp) < width {
		return time.Time{}, fmt.Errorf("timestamp %q too short", stamp)
	}
	digits := stamp[:width]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return time.Time{}, fmt.Errorf("timestamp %q is not numeric", stamp)
		}
	}
	t, err := time.ParseInLocation("20060102150405", digits, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", stamp, err)
	}
	return t, nil
}

// scanStamp parses <tag> as a compact timestamp.
func scanStamp(block, tag string) (time.Time, error) {
	raw, err := scanField(block, tag)
	if err != nil {
		return time.Time{}, err
	}
	t, err := DecodeStamp(raw)
	if err != nil {
		return time.Time{}, &ParseError{What: "field " + tag, Err: err}
	}
	return t, nil
}

// buildTransaction converts one record block into a detached
// Transaction. The running balance is left empty: this source does not
// supply one.
func buildTransaction(block string) (model.Transaction, error) {
	typ, err := scanField(block, tagType)
	if err != nil {
		return model.Transaction{}, err
	}
	name, err := scanField(block, tagName)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := scanDecimal(block, tagAmount)
	if err != nil {
		return model.Transaction{}, err
	}
	fitID, err := scanField(block, tagFitID)
	if err != nil {
		return model.Transaction{}, err
	}
	posted, err := scanStamp(block, tagPosted)
	if err != nil {
		return model.Transaction{}, err
	}

	// MEMO and CHECKNUM are optional in real exports.
	memo, _ := scanField(block, tagMemo)
	refNum := 0
	if raw, err := scanField(block, tagRefNum); err == nil && raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			refNum = n
		}
	}

	return model.Transaction{
		Type:            typ,
		DatePosted:      posted,
		Amount:          amount,
		ReferenceNumber: refNum,
		Name:            name,
		Memo:            memo,
		TransactionID:   fitID,
	}, nil
}

// buildBalance converts the ledger balance block into a LedgerBalance.
func buildBalance(block string) (model.LedgerBalance, error) {
	amount, err := scanDecimal(block, tagBalAmount)
	if err != nil {
		return model.LedgerBalance{}, err
	}
	asOf, err := scanStamp(block, tagBalAsOf)
	if err != nil {
		return model.LedgerBalance{}, err
	}
	return model.LedgerBalance{AsOf: asOf, Balance: amount}, nil
}
