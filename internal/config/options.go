package config

// Options — сырые значения флагов команды run, до валидации.
type Options struct {
	// GenomeID — идентификатор сборки генома (--genome).
	GenomeID string

	// TopDir — корневая директория запуска (--top-dir).
	TopDir string

	// Queue — короткая очередь планировщика (--queue).
	Queue string

	// LongQueue — очередь долгих задач (--long-queue).
	LongQueue string

	// Enzyme — рестрикционный фермент (--site).
	Enzyme string

	// SiteFile — явный override файла сайтов рестрикции (--site-file).
	SiteFile string

	// Reference — явный override референса (--reference).
	// Используется вместе с ChromSizes вместо GenomeID.
	Reference string

	// ChromSizes — явный override файла размеров хромосом (--chrom-sizes).
	ChromSizes string

	// GenomeDir — базовая директория реестра геномов (--genome-dir).
	GenomeDir string

	// ShortRead — short-read режим выравнивателя (--short-read).
	ShortRead bool

	// ShortReadEnd — какой конец идёт short-read путём (--read-end): 0, 1 или 2.
	ShortReadEnd int

	// Stage — стадия возобновления (--stage): none|merge|dedup|final|early.
	Stage string

	// About — свободное описание запуска (--about).
	About string

	// Group — имя группы запуска (--group). Пустое — сгенерировать.
	Group string

	// R1Marker, R2Marker — маркеры имён файлов первого/второго конца
	// (--r1-marker, --r2-marker).
	R1Marker string
	R2Marker string
}
