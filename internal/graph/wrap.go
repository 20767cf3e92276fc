package graph

import (
	"fmt"

	"github.com/shaiso/hicflow/internal/domain"
)

// WrapCommand оборачивает команду задачи записью состояний в ledger.
//
// Обёртка записывает RUNNING перед полезной нагрузкой и терминальное
// состояние с кодом выхода после — так ledger получает факт успеха,
// которого не даёт dependency gate планировщика. Код выхода полезной
// нагрузки сохраняется кодом выхода задачи.
func WrapCommand(selfPath, topDir, group string, id domain.TaskID, role domain.TaskRole, payload string) string {
	record := fmt.Sprintf("%s record --top-dir %s --group %s --task %s --role %s",
		selfPath, topDir, group, id, role)

	script := fmt.Sprintf(
		"%s --state RUNNING; %s; rc=$?; "+
			"if [ $rc -eq 0 ]; then %s --state SUCCEEDED; "+
			"else %s --state FAILED --exit-code $rc; fi; exit $rc",
		record, payload, record, record)

	return fmt.Sprintf("/bin/sh -c '%s'", script)
}
