package profile

// 辣度承受度
const (
	SpiceNone   = "none"
	SpiceMild   = "mild"
	SpiceMedium = "medium"
	SpiceHigh   = "high"
)

// BrothChoice 一項鍋底選擇（id + 份數）；多鍋底統一表示為非空有序列表，
// 單鍋底即單元素列表
type BrothChoice struct {
	BrothID  string `json:"broth_id"`
	NameCN   string `json:"name_cn"`
	NameEN   string `json:"name_en"`
	Quantity int    `json:"quantity"`
}

// CustomerProfile 多輪對話中抽取的客戶畫像
type CustomerProfile struct {
	SpiceTolerance string        `json:"spice_tolerance"`
	Allergies      []string      `json:"allergies"`
	Dislikes       []string      `json:"dislikes"`
	Preferences    []string      `json:"preferences"`
	BudgetMax      float64       `json:"budget_max,omitempty"` // 0 表示未設預算
	NumGuests      int           `json:"num_guests"`
	Language       string        `json:"language"` // zh 或 en
	Broths         []BrothChoice `json:"broths,omitempty"`
}

// Default 默認畫像：中辣、1 人、中文
func Default() CustomerProfile {
	return CustomerProfile{
		SpiceTolerance: SpiceMedium,
		NumGuests:      1,
		Language:       "zh",
	}
}

// Normalize 補齊缺省字段，保證下游不變式（人數 ≥ 1、辣度與語言合法）
func (p *CustomerProfile) Normalize() {
	switch p.SpiceTolerance {
	case SpiceNone, SpiceMild, SpiceMedium, SpiceHigh:
	default:
		p.SpiceTolerance = SpiceMedium
	}
	if p.NumGuests < 1 {
		p.NumGuests = 1
	}
	if p.Language != "en" {
		p.Language = "zh"
	}
	for i := range p.Broths {
		if p.Broths[i].Quantity < 1 {
			p.Broths[i].Quantity = 1
		}
	}
}
