package genome

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnknownAssembly — сборка отсутствует в реестре.
var ErrUnknownAssembly = errors.New("unknown genome assembly")

// Assembly — разрешённые пути одной сборки генома.
type Assembly struct {
	// ID — идентификатор сборки (hg19, hg38, ...).
	ID string

	// ReferencePath — путь к референсной последовательности (FASTA).
	ReferencePath string

	// ChromSizesPath — путь к файлу размеров хромосом.
	ChromSizesPath string
}

// knownAssemblies — относительные имена файлов известных сборок
// внутри базовой директории геномов.
var knownAssemblies = map[string]struct {
	reference  string
	chromSizes string
}{
	"hg18": {"hg18/hg18.fa", "hg18/hg18.chrom.sizes"},
	"hg19": {"hg19/hg19.fa", "hg19/hg19.chrom.sizes"},
	"hg38": {"hg38/hg38.fa", "hg38/hg38.chrom.sizes"},
	"mm9":  {"mm9/mm9.fa", "mm9/mm9.chrom.sizes"},
	"mm10": {"mm10/mm10.fa", "mm10/mm10.chrom.sizes"},
}

// Resolve возвращает пути сборки относительно базовой директории.
func Resolve(baseDir, assemblyID string) (*Assembly, error) {
	entry, ok := knownAssemblies[assemblyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAssembly, assemblyID)
	}
	return &Assembly{
		ID:             assemblyID,
		ReferencePath:  filepath.Join(baseDir, entry.reference),
		ChromSizesPath: filepath.Join(baseDir, entry.chromSizes),
	}, nil
}

// KnownAssembly проверяет, есть ли сборка в реестре.
func KnownAssembly(assemblyID string) bool {
	_, ok := knownAssemblies[assemblyID]
	return ok
}
