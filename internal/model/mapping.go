package model

// ColumnMapping maps semantic fields to header names. Empty means unmapped.
type ColumnMapping struct {
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount,omitempty"`
	Credit      string `yaml:"credit,omitempty"`
	Debit       string `yaml:"debit,omitempty"`
	Reference   string `yaml:"reference,omitempty"`
}

// HasAmount reports whether at least one amount-bearing column is mapped.
func (m ColumnMapping) HasAmount() bool {
	return m.Amount != "" || m.Credit != "" || m.Debit != ""
}

// Complete reports whether date, description and an amount field are mapped.
func (m ColumnMapping) Complete() bool {
	return m.Date != "" && m.Description != "" && m.HasAmount()
}

// Columns returns the mapped header names, skipping unmapped fields.
func (m ColumnMapping) Columns() []string {
	var cols []string
	for _, c := range []string{m.Date, m.Description, m.Amount, m.Credit, m.Debit, m.Reference} {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}
