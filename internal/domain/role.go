package domain

// TaskRole — роль задачи в графе выравнивания.
type TaskRole string

const (
	// RoleAlign1 — выравнивание первого конца пары чтений.
	RoleAlign1 TaskRole = "ALIGN1"

	// RoleAlign2 — выравнивание второго конца пары чтений.
	RoleAlign2 TaskRole = "ALIGN2"

	// RolePairMerge — сортировка обоих потоков по имени чтения
	// и merge-sort в один поток (пары чтений становятся соседями).
	RolePairMerge TaskRole = "PAIR_MERGE"

	// RoleChimericSplit — классификация пар: normal / abnormal / unmapped.
	RoleChimericSplit TaskRole = "CHIMERIC_SPLIT"

	// RoleFragmentSort — назначение рестрикционных фрагментов и сортировка
	// normal-пар одного сплита.
	RoleFragmentSort TaskRole = "FRAGMENT_SORT"

	// RoleGlobalMerge — fan-in: глобальное слияние всех fragment-sort выходов.
	RoleGlobalMerge TaskRole = "GLOBAL_MERGE"

	// RoleDedupSpawner — удаление дубликатов; узел сам порождает
	// дочерние задачи (вложенный под-граф за одним узлом).
	RoleDedupSpawner TaskRole = "DEDUP_SPAWNER"

	// RoleDedupChild — дочерняя задача дедупликации одной геномной партиции.
	// Создаётся только во время выполнения DedupSpawner.
	RoleDedupChild TaskRole = "DEDUP_CHILD"

	// RoleStats — генерация статистики для одного порога качества.
	RoleStats TaskRole = "STATS"

	// RoleMatrixBuild — построение контактной матрицы.
	RoleMatrixBuild TaskRole = "MATRIX_BUILD"

	// RolePostprocess — постпроцессинг по мотивам лигации (только ветка
	// с высоким порогом качества).
	RolePostprocess TaskRole = "POSTPROCESS"

	// RoleReconcile — терминальный узел: проверка успеха предков,
	// снятие отставших задач, итоговый вердикт.
	RoleReconcile TaskRole = "RECONCILE"
)

// roleOrder — порядок ролей в графе. Используется реконсайлером,
// чтобы назвать ПЕРВУЮ упавшую роль в итоговом отчёте.
var roleOrder = map[TaskRole]int{
	RoleAlign1:        0,
	RoleAlign2:        1,
	RolePairMerge:     2,
	RoleChimericSplit: 3,
	RoleFragmentSort:  4,
	RoleGlobalMerge:   5,
	RoleDedupSpawner:  6,
	RoleDedupChild:    7,
	RoleStats:         8,
	RoleMatrixBuild:   9,
	RolePostprocess:   10,
	RoleReconcile:     11,
}

// Order возвращает позицию роли в порядке стадий графа.
// Неизвестная роль сортируется в конец.
func (r TaskRole) Order() int {
	if n, ok := roleOrder[r]; ok {
		return n
	}
	return len(roleOrder)
}

// Slug возвращает короткое имя роли для идентификаторов задач.
func (r TaskRole) Slug() string {
	switch r {
	case RoleAlign1:
		return "align1"
	case RoleAlign2:
		return "align2"
	case RolePairMerge:
		return "pairmerge"
	case RoleChimericSplit:
		return "chimeric"
	case RoleFragmentSort:
		return "fragsort"
	case RoleGlobalMerge:
		return "merge"
	case RoleDedupSpawner:
		return "dedup"
	case RoleDedupChild:
		return "dedupchild"
	case RoleStats:
		return "stats"
	case RoleMatrixBuild:
		return "matrix"
	case RolePostprocess:
		return "postproc"
	case RoleReconcile:
		return "reconcile"
	default:
		return "task"
	}
}
