package external

import (
	"fmt"
	"strings"
	"time"
)

// FiscalCode is the structural decomposition of an Italian codice fiscale.
// Only the structure and the check character are verified; the registry is not consulted.
type FiscalCode struct {
	Valid            bool   `json:"valid"`
	Error            string `json:"error,omitempty"`
	Code             string `json:"code,omitempty"`
	SurnameCode      string `json:"surnameCode,omitempty"`
	NameCode         string `json:"nameCode,omitempty"`
	BirthDate        string `json:"birthDate,omitempty"`
	Gender           string `json:"gender,omitempty"`
	MunicipalityCode string `json:"municipalityCode,omitempty"`
	BornAbroad       bool   `json:"bornAbroad,omitempty"`
	Omocodia         bool   `json:"omocodia,omitempty"`
}

const fiscalCodeLength = 16

// monthLetters maps the month letter to its month
const monthLetters = "ABCDEHLMPRST"

// omocodiaLetters replace digits 0..9 when two people would share a code
const omocodiaLetters = "LMNPQRSTUV"

// omocodiaPositions are the digit positions that may carry a substitute letter
var omocodiaPositions = []int{6, 7, 9, 10, 12, 13, 14}

// oddValues is the check-digit weight of characters at odd (1-based) positions,
// indexed by digit value or letter offset
var oddValues = [26]int{1, 0, 5, 7, 9, 13, 15, 17, 19, 21, 2, 4, 18, 20, 11, 3, 6, 8, 12, 14, 16, 10, 22, 25, 24, 23}

// DecomposeFiscalCode validates code and splits it into its fields.
// The birth year takes the most recent century that does not put the birth after now.
func DecomposeFiscalCode(code string, now time.Time) FiscalCode {
	code = strings.ToUpper(strings.Join(strings.Fields(code), ""))
	if len(code) != fiscalCodeLength {
		return invalidFiscalCode("Il codice fiscale deve essere di 16 caratteri")
	}
	for i := 0; i < fiscalCodeLength; i++ {
		c := code[i]
		if !isUpperLetter(c) && !isDigit(c) {
			return invalidFiscalCode("Il codice fiscale contiene caratteri non validi")
		}
	}
	for _, i := range []int{0, 1, 2, 3, 4, 5, 8, 11, 15} {
		if !isUpperLetter(code[i]) {
			return invalidFiscalCode("Formato del codice fiscale non valido")
		}
	}

	if checkCharacter(code[:15]) != code[15] {
		return invalidFiscalCode("Carattere di controllo non valido")
	}

	plain := []byte(code)
	omocodia := false
	for _, i := range omocodiaPositions {
		c := plain[i]
		if isDigit(c) {
			continue
		}
		idx := strings.IndexByte(omocodiaLetters, c)
		if idx < 0 {
			return invalidFiscalCode("Formato del codice fiscale non valido")
		}
		plain[i] = byte('0' + idx)
		omocodia = true
	}

	month := strings.IndexByte(monthLetters, plain[8]) + 1
	if month == 0 {
		return invalidFiscalCode("Mese di nascita non valido")
	}

	yy := int(plain[6]-'0')*10 + int(plain[7]-'0')
	dd := int(plain[9]-'0')*10 + int(plain[10]-'0')
	gender := "M"
	if dd > 40 {
		gender = "F"
		dd -= 40
	}

	year := now.Year()/100*100 + yy
	if time.Date(year, time.Month(month), min(max(dd, 1), 28), 0, 0, 0, 0, time.UTC).After(now) {
		year -= 100
	}
	birth := time.Date(year, time.Month(month), dd, 0, 0, 0, 0, time.UTC)
	if dd < 1 || birth.Day() != dd || birth.Month() != time.Month(month) {
		return invalidFiscalCode("Giorno di nascita non valido")
	}

	municipality := string(plain[11:15])
	return FiscalCode{
		Valid:            true,
		Code:             code,
		SurnameCode:      code[0:3],
		NameCode:         code[3:6],
		BirthDate:        birth.Format("2006-01-02"),
		Gender:           gender,
		MunicipalityCode: municipality,
		BornAbroad:       municipality[0] == 'Z',
		Omocodia:         omocodia,
	}
}

func checkCharacter(first15 string) byte {
	sum := 0
	for i := 0; i < len(first15); i++ {
		v := charValue(first15[i])
		if i%2 == 0 {
			sum += oddValues[v]
		} else {
			sum += v
		}
	}
	return byte('A' + sum%26)
}

// charValue maps '0'..'9' to 0..9 and 'A'..'Z' to 0..25
func charValue(c byte) int {
	if isDigit(c) {
		return int(c - '0')
	}
	return int(c - 'A')
}

func isDigit(c byte) bool       { return c >= '0' && c <= '9' }
func isUpperLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

func invalidFiscalCode(msg string) FiscalCode {
	return FiscalCode{Valid: false, Error: msg}
}

// String renders the code for logs
func (f FiscalCode) String() string {
	if !f.Valid {
		return fmt.Sprintf("invalid(%s)", f.Error)
	}
	return f.Code
}
