// Package pipeline строит граф задач одного запуска по стадиям.
//
// Включает:
//   - split.go       — SplitCoordinator: перечисление сплитов и fan-out цепочки
//   - convergence.go — ConvergenceStage: глобальный fan-in merge
//   - dedup.go       — DedupStage: узел-spawner дедупликации
//   - report.go      — ReportStage: две ветки статистики/матриц
//   - reconcile.go   — терминальный узел реконсайлера
//   - controller.go  — StageController: машина стадий resume
//   - commands.go    — командные строки внешних программ
//
// Все строители эмитят задачи через graph.Builder; зависимость между
// стадиями передаётся явным набором идентификаторов «hold jobs».
package pipeline
