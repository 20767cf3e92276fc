package domain

// SplitUnit — одна fan-out партиция парных входных чтений.
//
// Каждый SplitUnit порождает независимую цепочку
// Align1 ∥ Align2 → PairMerge → ChimericSplit → FragmentSort.
type SplitUnit struct {
	// R1 — путь к файлу чтений первого конца.
	R1 string `json:"r1"`

	// R2 — путь к файлу чтений второго конца.
	R2 string `json:"r2"`

	// Suffix — уникальный суффикс, выведенный из имени файла.
	// Используется в именах промежуточных файлов сплита.
	Suffix string `json:"suffix"`

	// TotalBytes — суммарный размер обоих файлов.
	// Участвует в выборе класса памяти для выравнивания.
	TotalBytes int64 `json:"total_bytes"`
}
