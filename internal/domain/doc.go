// Package domain содержит основные типы данных пайплайна.
//
// Включает:
//   - task.go   — Task: единица работы, отправляемая в batch-планировщик
//   - status.go — TaskState: жизненный цикл задачи
//   - role.go   — TaskRole: роль задачи в графе выравнивания
//   - split.go  — SplitUnit: одна fan-out партиция парных чтений
//   - stage.go  — Stage: точка входа (возобновления) пайплайна
//   - run.go    — PipelineRun: конфигурация одного запуска
//
// Типы domain не зависят от других пакетов проекта и используются
// всеми слоями: построением графа, планировщиком, ledger'ом состояний.
package domain
