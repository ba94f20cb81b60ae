package profile

import (
	"context"
	"strconv"
	"strings"
)

// 中文數字 → 人數
var cnDigits = map[rune]int{
	'一': 1, '两': 2, '俩': 2, '二': 2, '三': 3, '四': 4, '五': 5, '六': 6,
}

var spiceKeywords = []struct {
	kw    string
	level string
}{
	{"不吃辣", SpiceNone},
	{"不要辣", SpiceNone},
	{"不辣", SpiceNone},
	{"微辣", SpiceMild},
	{"一点点辣", SpiceMild},
	{"特辣", SpiceHigh},
	{"重辣", SpiceHigh},
	{"很辣", SpiceHigh},
	{"超辣", SpiceHigh},
	{"中辣", SpiceMedium},
	{"能吃辣", SpiceMedium},
	{"吃辣", SpiceMedium},
}

var allergyKeywords = []struct {
	kw      string
	allergy string
}{
	{"花生", "花生"},
	{"peanut", "花生"},
	{"海鲜", "海鲜"},
	{"虾", "海鲜"},
	{"蟹", "海鲜"},
	{"seafood", "海鲜"},
	{"shrimp", "海鲜"},
	{"面筋", "面筋"},
	{"麸质", "面筋"},
	{"gluten", "面筋"},
}

// HeuristicExtractor 無外部模型時的規則版畫像抽取：
// 從最近一條用戶消息里摳人數、辣度、過敏原
type HeuristicExtractor struct{}

// NewHeuristicExtractor 創建規則版畫像抽取器
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract 規則抽取；信息不足時追問人數與忌口
func (h *HeuristicExtractor) Extract(_ context.Context, turns []Turn, current CustomerProfile) (Extraction, error) {
	p := current
	p.Normalize()

	msg := latestUserMessage(turns)
	lower := strings.ToLower(msg)

	// 人數掃全部用戶輪次，後說的覆蓋先說的
	guestsFound := false
	for _, t := range turns {
		if t.Role != "user" {
			continue
		}
		if n, ok := parseGuests(t.Content); ok {
			p.NumGuests = n
			guestsFound = true
		}
	}

	for _, sk := range spiceKeywords {
		if strings.Contains(msg, sk.kw) {
			p.SpiceTolerance = sk.level
			break
		}
	}

	for _, ak := range allergyKeywords {
		if strings.Contains(lower, ak.kw) && !containsString(p.Allergies, ak.allergy) {
			// 過敏只在「过敏/不吃/忌」語境下認定，避免把「想吃虾」當過敏
			if strings.Contains(msg, "过敏") || strings.Contains(msg, "不吃") ||
				strings.Contains(msg, "忌") || strings.Contains(lower, "allerg") {
				p.Allergies = append(p.Allergies, ak.allergy)
			}
		}
	}

	// 人數沒問到之前先追問，避免按默認一人份推薦
	if !guestsFound {
		return Extraction{
			Profile:      p,
			NeedMore:     true,
			NextQuestion: "请问今天几位用餐？有不吃辣或忌口的吗？",
		}, nil
	}

	return Extraction{Profile: p}, nil
}

func latestUserMessage(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "user" {
			return turns[i].Content
		}
	}
	return ""
}

// parseGuests 識別「3个人」「三位」「我们俩」這類人數表達
func parseGuests(msg string) (int, bool) {
	runes := []rune(msg)
	for i, r := range runes {
		if r != '人' && r != '位' {
			continue
		}
		j := i - 1
		if j >= 0 && (runes[j] == '个' || runes[j] == '個') {
			j--
		}
		if j < 0 {
			continue
		}
		if n, ok := cnDigits[runes[j]]; ok {
			return n, true
		}
		if runes[j] >= '0' && runes[j] <= '9' {
			k := j
			for k > 0 && runes[k-1] >= '0' && runes[k-1] <= '9' {
				k--
			}
			if n, err := strconv.Atoi(string(runes[k : j+1])); err == nil && n > 0 {
				return n, true
			}
		}
	}
	// 「我们俩」「就俩」這種不帶量詞的
	if strings.Contains(msg, "俩") {
		return 2, true
	}
	return 0, false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
