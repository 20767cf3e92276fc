package genome

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Chromosome — одна запись файла размеров хромосом.
type Chromosome struct {
	Name   string
	Length int64
}

// ParseChromSizes читает файл размеров хромосом: по одной хромосоме
// на строку, имя и длина через табуляцию или пробелы. Пустые строки
// и строки-комментарии (#) пропускаются.
func ParseChromSizes(r io.Reader) ([]Chromosome, error) {
	var chroms []Chromosome

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("chrom sizes line %d: expected name and length, got %q", line, text)
		}

		length, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chrom sizes line %d: parse length: %w", line, err)
		}

		chroms = append(chroms, Chromosome{Name: fields[0], Length: length})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chrom sizes: %w", err)
	}
	if len(chroms) == 0 {
		return nil, fmt.Errorf("chrom sizes: no chromosomes found")
	}

	return chroms, nil
}

// LoadChromSizes читает файл размеров хромосом с диска.
func LoadChromSizes(path string) ([]Chromosome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chrom sizes: %w", err)
	}
	defer f.Close()

	return ParseChromSizes(f)
}
