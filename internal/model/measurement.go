package model

// Verdict is the quality outcome recorded in the kualitas field.
type Verdict string

const (
	VerdictOK    Verdict = "OK"
	VerdictNotOK Verdict = "NOT OK"
)

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	return v == VerdictOK || v == VerdictNotOK
}

// Measurement is one quality-control observation of a production line.
// "group" is reserved in SQL, hence the explicit column name.
type Measurement struct {
	ID       int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Date     string  `json:"date" gorm:"size:40;not null;index"`
	Group    string  `json:"group" gorm:"column:group_name;size:64;not null"`
	Shift    int     `json:"shift" gorm:"not null;index"`
	Line     string  `json:"line" gorm:"size:32;not null;index"`
	Suhu     int     `json:"suhu" gorm:"not null"`
	Berat    float64 `json:"berat" gorm:"not null"`
	Kualitas Verdict `json:"kualitas" gorm:"size:8;not null"`
}

// IsReject reports whether the measurement was judged NOT OK.
func (m Measurement) IsReject() bool {
	return m.Kualitas == VerdictNotOK
}
