package genome

import (
	"errors"
	"fmt"
)

// ErrUnknownEnzyme — фермент отсутствует в таблице.
// Без явного override site-файла это ConfigError на уровне CLI.
var ErrUnknownEnzyme = errors.New("unknown restriction enzyme")

// ligationMotifs — мотив лигационного соединения по имени фермента.
// DpnII и MboI режут один и тот же сайт, мотив совпадает.
var ligationMotifs = map[string]string{
	"HindIII": "AAGCTAGCTT",
	"DpnII":   "GATCGATC",
	"MboI":    "GATCGATC",
	"NcoI":    "CCATGCATGG",
}

// LigationMotif возвращает мотив лигационного соединения фермента.
func LigationMotif(enzyme string) (string, error) {
	motif, ok := ligationMotifs[enzyme]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEnzyme, enzyme)
	}
	return motif, nil
}

// KnownEnzyme проверяет, есть ли фермент в таблице.
func KnownEnzyme(enzyme string) bool {
	_, ok := ligationMotifs[enzyme]
	return ok
}

// SiteFileName возвращает имя файла сайтов рестрикции для пары
// сборка+фермент, например "hg19_DpnII.txt".
func SiteFileName(assemblyID, enzyme string) string {
	return fmt.Sprintf("%s_%s.txt", assemblyID, enzyme)
}
