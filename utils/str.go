package utils

import (
	"strconv"
	"strings"
)

func StrToInt(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func StrToInts(s, sep string) []int {
	var (
		ids  = strings.Split(s, sep)
		rets = make([]int, 0, len(ids))
		i    int
		e    error
	)
	for _, id := range ids {
		i, e = strconv.Atoi(strings.TrimSpace(id))
		if e == nil {
			rets = append(rets, i)
		}
	}
	return rets
}

func StrToFloats(s, sep string) []float64 {
	var (
		fs   = strings.Split(s, sep)
		rets = make([]float64, 0, len(fs))
		f    float64
		e    error
	)
	for _, v := range fs {
		f, e = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if e == nil {
			rets = append(rets, f)
		}
	}
	return rets
}

// 浮点数转字符串，不带多余尾零
func FloatToStr(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func FloatsToStr(fs []float64, sep byte) string {
	var ret strings.Builder
	for i, f := range fs {
		if i > 0 {
			ret.WriteByte(sep)
		}
		ret.WriteString(FloatToStr(f))
	}
	return ret.String()
}

func IntsToStr(ids []int, sep byte) string {
	var ret strings.Builder
	for i, id := range ids {
		if i > 0 {
			ret.WriteByte(sep)
		}
		ret.WriteString(strconv.Itoa(id))
	}
	return ret.String()
}
