package menu

import (
	"fmt"
	"os"

	"hotpot-concierge/internal/pkg/common"

	"go.uber.org/zap"
)

// SpicyLevel 鍋底辣度
type SpicyLevel string

const (
	SpicyNone SpicyLevel = "none"
	SpicyHalf SpicyLevel = "half"
	SpicyFull SpicyLevel = "full"
)

// Category 食材品類
type Category string

const (
	CategoryMeat      Category = "meat"
	CategoryVegetable Category = "vegetable"
	CategorySeafood   Category = "seafood"
	CategoryTofu      Category = "tofu"
	CategoryStaple    Category = "staple"
	CategorySoupBase  Category = "soup_base"
)

// Broth 鍋底（含解析後價格）
type Broth struct {
	ID             string     `json:"id"`
	NameCN         string     `json:"name_cn"`
	NameEN         string     `json:"name_en"`
	Price          float64    `json:"price"`
	Spicy          SpicyLevel `json:"spicy"`
	PopularityRank int        `json:"popularity_rank"`
}

// Ingredient 食材（含解析後單價）
type Ingredient struct {
	ID               string   `json:"id"`
	NameCN           string   `json:"name_cn"`
	NameEN           string   `json:"name_en"`
	Category         Category `json:"category"`
	PortionPerPerson float64  `json:"portion_per_person"`
	PricePerPortion  float64  `json:"price_per_portion"`
	UnitEN           string   `json:"unit_en"`
	NotesEN          string   `json:"notes_en"`
}

// menuFile 菜單文件結構（§外部介面固定 schema）
type menuFile struct {
	ShopName    string       `json:"shop_name"`
	Ingredients []Ingredient `json:"ingredients"`
	SoupBases   []Broth      `json:"soup_bases"`
}

// 預設單價（元/份），菜單無 price_per_portion 時按 id 查此表
var defaultPrices = map[string]float64{
	"sliced_beef":   38.0,
	"sliced_lamb":   36.0,
	"pork_belly":    32.0,
	"shrimp":        42.0,
	"fish_balls":    22.0,
	"tofu":          12.0,
	"lettuce":       10.0,
	"potato_slices": 10.0,
	"noodles":       8.0,
}

// 品類預設單價
var categoryDefaultPrice = map[Category]float64{
	CategoryMeat:      32.0,
	CategorySeafood:   28.0,
	CategoryVegetable: 12.0,
	CategoryTofu:      12.0,
	CategoryStaple:    8.0,
}

// 鍋底預設價格
var soupBasePrice = map[string]float64{
	"tomato":        28.0,
	"spicy_sichuan": 32.0,
	"bone":          26.0,
	"yinyang":       38.0,
}

const (
	flatFallbackPrice     = 20.0
	brothFallbackPrice    = 28.0
	defaultPortionPerHead = 1.0
)

// Catalog 菜單目錄，載入後只讀
type Catalog struct {
	shopName    string
	ingredients []Ingredient
	broths      []Broth
	itemByID    map[string]Ingredient
	brothByID   map[string]Broth
}

// Load 載入菜單文件並解析價格；文件不存在時返回 MENU_NOT_FOUND
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewError("MENU_NOT_FOUND", fmt.Sprintf("菜單文件不存在: %s", path), 500, err)
		}
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}

	var f menuFile
	if err := common.ParseJSONBytes(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse menu file: %w", err)
	}

	c := &Catalog{
		shopName:  f.ShopName,
		itemByID:  make(map[string]Ingredient, len(f.Ingredients)),
		brothByID: make(map[string]Broth, len(f.SoupBases)),
	}

	for _, it := range f.Ingredients {
		if it.PricePerPortion <= 0 {
			it.PricePerPortion = ItemPrice(it.ID, it.Category)
		}
		if it.PortionPerPerson <= 0 {
			it.PortionPerPerson = defaultPortionPerHead
		}
		if it.UnitEN == "" {
			it.UnitEN = "portion"
		}
		c.ingredients = append(c.ingredients, it)
		c.itemByID[it.ID] = it
	}

	for _, b := range f.SoupBases {
		if b.Price <= 0 {
			if p, ok := soupBasePrice[b.ID]; ok {
				b.Price = p
			} else {
				b.Price = brothFallbackPrice
			}
		}
		c.broths = append(c.broths, b)
		c.brothByID[b.ID] = b
	}

	common.LogInfo("菜單載入完成",
		zap.String("path", path),
		zap.Int("食材數", len(c.ingredients)),
		zap.Int("鍋底數", len(c.broths)),
	)

	return c, nil
}

// ItemPrice 按 解析順序 id 表 > 鍋底表 > 品類表 > 固定兜底 計算食材單價
func ItemPrice(itemID string, category Category) float64 {
	if p, ok := defaultPrices[itemID]; ok {
		return p
	}
	if p, ok := soupBasePrice[itemID]; ok {
		return p
	}
	if category == "" {
		category = CategoryMeat
	}
	if p, ok := categoryDefaultPrice[category]; ok {
		return p
	}
	return flatFallbackPrice
}

// ShopName 店名
func (c *Catalog) ShopName() string {
	return c.shopName
}

// Ingredients 返回全部食材（已含解析價格）
func (c *Catalog) Ingredients() []Ingredient {
	return c.ingredients
}

// Broths 返回全部鍋底（已含解析價格）
func (c *Catalog) Broths() []Broth {
	return c.broths
}

// IngredientByID 按 id 查食材
func (c *Catalog) IngredientByID(id string) (Ingredient, bool) {
	it, ok := c.itemByID[id]
	return it, ok
}

// BrothByID 按 id 查鍋底
func (c *Catalog) BrothByID(id string) (Broth, bool) {
	b, ok := c.brothByID[id]
	return b, ok
}

// BrothByNameCN 按中文名查鍋底（前端鍋底選項以中文名提交）
func (c *Catalog) BrothByNameCN(nameCN string) (Broth, bool) {
	for _, b := range c.broths {
		if b.NameCN == nameCN {
			return b, true
		}
	}
	return Broth{}, false
}

// HasIngredient 檢查食材 id 是否存在
func (c *Catalog) HasIngredient(id string) bool {
	_, ok := c.itemByID[id]
	return ok
}
