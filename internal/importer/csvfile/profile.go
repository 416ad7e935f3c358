package csvfile

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned is one signed column; negative values are expenses.
	amountSigned amountMode = iota
	// amountSplit is separate debit and credit columns.
	amountSplit
	// amountTyped is an unsigned amount next to an explicit type column.
	amountTyped
)

// Profile describes the column layout of a supported CSV format. Header
// names are compared case-insensitively.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // amountSigned, amountTyped
	TypeCol    string // amountTyped
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
}

// Optional columns picked up by every profile when present.
const (
	categoryCol = "category"
	currencyCol = "currency"
)

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	case amountTyped:
		cols = append(cols, p.AmountCol, p.TypeCol)
	}

	return cols
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:       "fintrack",
		DateCol:    "date",
		DescCol:    "description",
		AmountMode: amountTyped,
		AmountCol:  "amount",
		TypeCol:    "type",
	},
	{
		Name:       "debit-credit",
		DateCol:    "date",
		DescCol:    "description",
		AmountMode: amountSplit,
		DebitCol:   "debit",
		CreditCol:  "credit",
	},
	{
		Name:       "signed",
		DateCol:    "date",
		DescCol:    "description",
		AmountMode: amountSigned,
		AmountCol:  "amount",
	},
}
