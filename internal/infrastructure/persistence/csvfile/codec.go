package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// Interchange schema
// Column names are fixed by the original dashboard and must survive a
// load -> save -> load round trip byte for byte.
// ─────────────────────────────────────────────────────────────────────────────

// studentsHeader is the header row of estudiantes.csv.
func studentsHeader() []string {
	return []string{"Estudiante", "Grupo"}
}

// recordsHeader is the header row of actividades.csv: the fixed identity
// columns followed by one column per (competency, element) pair, generated
// once from the rubric configuration.
func recordsHeader() []string {
	header := []string{"Estudiante", "Grupo", "Actividad"}
	for _, c := range rubric.Competencies() {
		for e := 1; e <= rubric.Elements; e++ {
			header = append(header, rubric.ColumnName(c, e))
		}
	}
	return header
}

// ─────────────────────────────────────────────────────────────────────────────
// Students table
// ─────────────────────────────────────────────────────────────────────────────

func encodeStudents(students []*student.Student) [][]string {
	rows := make([][]string, 0, len(students)+1)
	rows = append(rows, studentsHeader())
	for _, s := range students {
		rows = append(rows, []string{s.Name.String(), s.Group.String()})
	}
	return rows
}

func loadStudents(path string) ([]*student.Student, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if err := checkHeader(rows[0], studentsHeader(), path); err != nil {
		return nil, err
	}

	students := make([]*student.Student, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != 2 {
			return nil, shared.NewDomainError("csvfile", "Load", shared.ErrInvalidInput,
				fmt.Sprintf("%s: row %d has %d columns, want 2", path, i+2, len(row)))
		}

		s, err := student.NewStudent(student.NewStudentParams{
			ID:    uuid.NewString(),
			Name:  student.Name(row[0]),
			Group: student.Group(row[1]),
		})
		if err != nil {
			return nil, shared.WrapError("csvfile", "Load", shared.ErrInvalidInput,
				fmt.Sprintf("%s: row %d", path, i+2), err)
		}
		students = append(students, s)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Activities table
// ─────────────────────────────────────────────────────────────────────────────

func encodeRecords(records []*evidence.Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, recordsHeader())
	for _, r := range records {
		row := []string{r.Student.String(), r.Group.String(), r.Activity.String()}
		for _, c := range rubric.Competencies() {
			for e := 1; e <= rubric.Elements; e++ {
				row = append(row, r.Scores[c][e].String())
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func loadRecords(path string) ([]*evidence.Record, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := recordsHeader()
	if err := checkHeader(rows[0], header, path); err != nil {
		return nil, err
	}

	records := make([]*evidence.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, shared.NewDomainError("csvfile", "Load", shared.ErrInvalidInput,
				fmt.Sprintf("%s: row %d has %d columns, want %d", path, i+2, len(row), len(header)))
		}

		scores := evidence.NewScoreSheet()
		col := 3
		for _, c := range rubric.Competencies() {
			for e := 1; e <= rubric.Elements; e++ {
				level, err := rubric.ParseLevel(row[col])
				if err != nil {
					return nil, shared.WrapError("csvfile", "Load", shared.ErrInvalidLevel,
						fmt.Sprintf("%s: row %d column %s", path, i+2, header[col]), err)
				}
				if err := scores.Set(c, e, level); err != nil {
					return nil, err
				}
				col++
			}
		}

		r, err := evidence.NewRecord(evidence.NewRecordParams{
			ID:       uuid.NewString(),
			Student:  student.Name(row[0]),
			Group:    student.Group(row[1]),
			Activity: rubric.Activity(row[2]),
			Scores:   scores,
		})
		if err != nil {
			return nil, shared.WrapError("csvfile", "Load", shared.ErrInvalidInput,
				fmt.Sprintf("%s: row %d", path, i+2), err)
		}
		records = append(records, r)
	}

	return records, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Export
// ─────────────────────────────────────────────────────────────────────────────

// MarshalRecords renders evidence records in the interchange format, header
// included. The output of an unfiltered export is byte-identical to the
// actividades.csv the flat-file backend writes.
func MarshalRecords(records []*evidence.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, encodeRecords(records)); err != nil {
		return nil, shared.WrapError("csvfile", "Marshal", shared.ErrStorageFailure,
			"cannot encode records", err)
	}
	return buf.Bytes(), nil
}

// MarshalStudents renders roster rows in the interchange format.
func MarshalStudents(students []*student.Student) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, encodeStudents(students)); err != nil {
		return nil, shared.WrapError("csvfile", "Marshal", shared.ErrStorageFailure,
			"cannot encode students", err)
	}
	return buf.Bytes(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CSV plumbing
// ─────────────────────────────────────────────────────────────────────────────

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, shared.WrapError("csvfile", "Load", shared.ErrStorageFailure,
			fmt.Sprintf("cannot open %s", path), err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, shared.WrapError("csvfile", "Load", shared.ErrStorageFailure,
			fmt.Sprintf("cannot parse %s", path), err)
	}
	return rows, nil
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func checkHeader(got, want []string, path string) error {
	if len(got) != len(want) {
		return shared.NewDomainError("csvfile", "Load", shared.ErrInvalidInput,
			fmt.Sprintf("%s: header has %d columns, want %d", path, len(got), len(want)))
	}
	for i := range want {
		if got[i] != want[i] {
			return shared.NewDomainError("csvfile", "Load", shared.ErrInvalidInput,
				fmt.Sprintf("%s: header column %d is %q, want %q", path, i+1, got[i], want[i]))
		}
	}
	return nil
}
