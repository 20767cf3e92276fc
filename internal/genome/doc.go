// Package genome содержит справочные данные о сборках генома
// и рестрикционных ферментах.
//
// Включает:
//   - assembly.go   — реестр известных сборок и разрешение путей
//   - enzyme.go     — таблица ферментов и мотивов лигации
//   - chromsizes.go — чтение файла размеров хромосом (для партиций dedup)
package genome
