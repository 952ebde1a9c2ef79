package flatfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/aanand-mishra/academico/internal/types"
)

// Header is the first line of every store file. It is never data.
const Header = "id;nome;email;senha;nivel;curso;turma;idade;np1;np2;pim;media;atividade"

const (
	delimiter = ";"

	// mandatoryFields is how many leading columns (id through turma)
	// a line must have to be a record. The rest default when missing.
	mandatoryFields = 7
)

// requiredFields are the columns (id, name, email, password, role) that
// must hold text for a line to be a record.
var requiredFields = []int{0, 1, 2, 3, 4}

// adminLine is the record every new store is seeded with.
const adminLine = "1;Administrador;admin@admin.com;admin;Administrador;Sistema;Geral;30;0;0;0;0;Ativo"

// Parse decodes one store line. The boolean is false when the line is
// blank, is the header, has fewer than the mandatory columns, or leaves
// id, name, email, password or role blank; all other lines parse, with
// missing or non-numeric numbers read as 0 and a missing or blank status
// read as types.DefaultStatus. Course and class may be blank.
func Parse(line string) (types.User, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, Header) {
		return types.User{}, false
	}

	fields := strings.Split(line, delimiter)
	if len(fields) < mandatoryFields {
		return types.User{}, false
	}

	// field returns column i trimmed, or "" past the end of the line.
	field := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	for _, i := range requiredFields {
		if field(i) == "" {
			return types.User{}, false
		}
	}

	u := types.User{
		ID:       parseInt(field(0)),
		Name:     field(1),
		Email:    field(2),
		Password: field(3),
		Role:     field(4),
		Course:   field(5),
		Class:    field(6),
		Age:      parseInt(field(7)),
		NP1:      parseFloat(field(8)),
		NP2:      parseFloat(field(9)),
		PIM:      parseFloat(field(10)),
		Average:  parseFloat(field(11)),
		Status:   field(12),
	}
	if u.Status == "" {
		u.Status = types.DefaultStatus
	}
	return u, true
}

// Format encodes u as one newline-terminated store line. Scores are
// written with two decimals and an empty status becomes
// types.DefaultStatus.
func Format(u types.User) string {
	status := u.Status
	if status == "" {
		status = types.DefaultStatus
	}
	return fmt.Sprintf("%d;%s;%s;%s;%s;%s;%s;%d;%.2f;%.2f;%.2f;%.2f;%s\n",
		u.ID,
		u.Name,
		u.Email,
		u.Password,
		u.Role,
		u.Course,
		u.Class,
		u.Age,
		u.NP1, u.NP2, u.PIM, u.Average,
		status,
	)
}

// leadingID extracts the first run of digits of a line after optional
// leading whitespace. It does not look at the rest of the line, so a
// line Parse rejects can still report an id.
func leadingID(line string) (int, bool) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	end := 0
	for end < len(line) && line[end] >= '0' && line[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(line[:end])
	if err != nil {
		// Out of int range.
		return 0, false
	}
	return id, true
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseFloat accepts a decimal comma, which spreadsheet exports of the
// store produce.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
