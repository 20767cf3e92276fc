package domain

// PipelineRun — конфигурация одного запуска пайплайна.
//
// Собирается из CLI-флагов пакетом config после валидации и preflight
// проверок; к моменту создания PipelineRun все пути уже разрешены.
type PipelineRun struct {
	// Group — уникальное имя группы запуска. Служит префиксом
	// идентификаторов задач и неймспейсом на общем планировщике.
	Group string `json:"group"`

	// TopDir — корневая директория запуска (fastq/, splits/, aligned/).
	TopDir string `json:"top_dir"`

	// GenomeID — идентификатор сборки генома (hg19, mm10, ...).
	// Пустой при явном override reference+chrom-sizes.
	GenomeID string `json:"genome_id,omitempty"`

	// ReferencePath — путь к референсной последовательности.
	ReferencePath string `json:"reference_path"`

	// ChromSizesPath — путь к файлу размеров хромосом.
	ChromSizesPath string `json:"chrom_sizes_path"`

	// Enzyme — имя рестрикционного фермента (HindIII, DpnII, ...).
	Enzyme string `json:"enzyme,omitempty"`

	// SiteFilePath — путь к файлу сайтов рестрикции.
	SiteFilePath string `json:"site_file_path"`

	// LigationMotif — мотив лигационного соединения фермента.
	LigationMotif string `json:"ligation_motif"`

	// Stage — точка входа запуска.
	Stage Stage `json:"stage"`

	// ShortRead — использовать short-read путь выравнивателя.
	ShortRead bool `json:"short_read"`

	// ShortReadEnd — какой конец пары идёт по short-read пути:
	// 0 — оба (или ни один, если ShortRead=false), 1 или 2 — только один.
	ShortReadEnd int `json:"short_read_end"`

	// Queue — короткая (интерактивная) очередь планировщика.
	Queue string `json:"queue"`

	// LongQueue — очередь для долгих задач (merge, dedup, matrix).
	LongQueue string `json:"long_queue"`

	// About — свободное описание запуска.
	About string `json:"about,omitempty"`
}

// ShortReadFor — идёт ли выравнивание данного конца (1 или 2)
// по short-read пути.
func (r *PipelineRun) ShortReadFor(end int) bool {
	if !r.ShortRead {
		return false
	}
	return r.ShortReadEnd == 0 || r.ShortReadEnd == end
}
