package utils

import (
	"math"
	"strconv"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

func RoundWithFourDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*10000) / 10000
}

// SafeFloat converte uma string numérica da API em float64, retornando o
// valor padrão quando a string é vazia ou inválida
func SafeFloat(value string, def float64) float64 {
	if value == "" {
		return def
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}

	return f
}

// SafeInt converte uma string numérica da API em int, retornando o valor
// padrão quando a string é vazia ou inválida
func SafeInt(value string, def int) int {
	if value == "" {
		return def
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		// A API pode reportar inteiros como "12.0"
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil {
			return def
		}
		return int(f)
	}

	return i
}
