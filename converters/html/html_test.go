package html

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

const caixaPage = `
<html>
<head><meta http-equiv="Content-Type" content="text/html; charset=utf-8"></head>
<body>
<table border="1">
<tr><th>Concurso</th><th>Data Sorteio</th><th>1ª Dezena</th><th>2ª Dezena</th><th>3ª Dezena</th><th>4ª Dezena</th><th>5ª Dezena</th><th>6ª Dezena</th><th>Ganhadores_Sena</th><th>Cidade</th><th>UF</th></tr>
<tr><td rowspan="1">1</td><td>11/03/1996</td><td>41</td><td>05</td><td>04</td><td>52</td><td>30</td><td>33</td><td>0</td><td>&nbsp;</td><td>&nbsp;</td></tr>
<tr><td rowspan="2">2</td><td>18/03/1996</td><td>09</td><td>39</td><td>37</td><td>49</td><td>43</td><td>41</td><td>2</td><td>SÃO PAULO</td><td>SP</td></tr>
<tr><td>CURITIBA</td><td>PR</td></tr>
</table>
</body>
</html>
`

func TestHTMLConverter_CaixaResults(t *testing.T) {
	conv, err := NewHTMLConverter(strings.NewReader(caixaPage))
	if err != nil {
		t.Fatalf("NewHTMLConverter failed: %v", err)
	}

	var rows []int
	var got [][]any
	err = conv.ScanRows(context.Background(), func(row int, cells []any) error {
		rows = append(rows, row)
		got = append(got, append([]any(nil), cells...))
		return nil
	})
	if err != nil {
		t.Fatalf("ScanRows failed: %v", err)
	}

	if !reflect.DeepEqual(rows, []int{2, 3}) {
		t.Fatalf("rows = %v, want [2 3] (continuation row skipped)", rows)
	}
	if got[0][0] != "1" || got[0][2] != "41" || got[0][3] != "05" {
		t.Errorf("first row = %v", got[0])
	}
	if got[1][1] != "18/03/1996" || got[1][8] != "2" || got[1][9] != "SÃO PAULO" {
		t.Errorf("second row = %v", got[1])
	}
}

func TestHTMLConverter_NoTable(t *testing.T) {
	_, err := NewHTMLConverter(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	if err == nil || !strings.Contains(err.Error(), "no tables") {
		t.Fatalf("expected no tables error, got %v", err)
	}
}

func TestHTMLConverter_SkipsEmptyTables(t *testing.T) {
	page := `<table></table><table><tr><th>Concurso</th></tr><tr><td>7</td></tr></table>`
	conv, err := NewHTMLConverter(strings.NewReader(page))
	if err != nil {
		t.Fatalf("NewHTMLConverter failed: %v", err)
	}

	count := 0
	err = conv.ScanRows(context.Background(), func(row int, cells []any) error {
		count++
		if cells[0] != "7" {
			t.Errorf("cell = %v, want 7", cells[0])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ScanRows failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
