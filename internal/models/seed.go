// internal/models/seed.go
package models

import "github.com/lib/pq"

func DefaultBotSettings() BotSettings {
	return BotSettings{
		BuyButton:         true,
		StatusSequence:    []string{string(OrderStatusPending), string(OrderStatusAccepted), string(OrderStatusReady)},
		AdminNotification: true,
		PDFReceipt:        true,
		UserDataRequired:  []string{"name", "phone"},
	}
}

func seedProduct(id, name string, category Category, variants []string, prices []int64, image, description string, tags ...string) Product {
	return Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Variants:    pq.StringArray(variants),
		Prices:      pq.Int64Array(prices),
		ImageURL:    image,
		Description: description,
		Tags:        pq.StringArray(tags),
		SEO: SEO{
			Title:           name + " | Fortex",
			MetaDescription: description,
		},
		TelegramBot: DefaultBotSettings(),
	}
}

// DefaultCatalog is written to an empty catalog on first access.
func DefaultCatalog() []Product {
	return []Product{
		seedProduct("prod_1", "Fortex Premium 5W-30", CategoryMotorOil,
			[]string{"1L", "4L", "5L"}, []int64{85000, 320000, 0},
			"/images/fortex-5w30.webp", "Fully synthetic motor oil for modern petrol engines.", "New"),
		seedProduct("prod_2", "Shell Helix HX7 10W-40", CategoryMotorOil,
			[]string{"1L", "4L"}, []int64{95000, 350000},
			"/images/shell-hx7.webp", "Semi-synthetic oil for everyday driving.", "Hit"),
		seedProduct("prod_3", "Castrol Magnatec 5W-30", CategoryMotorOil,
			[]string{"1L", "4L"}, []int64{120000, 440000},
			"/images/castrol-magnatec.webp", "Intelligent molecules cling to the engine from start-up."),
		seedProduct("prod_4", "LiQui Moly Optimal 10W-40", CategoryMotorOil,
			[]string{"1L", "5L"}, []int64{110000, 0},
			"/images/liqui-optimal.webp", "German semi-synthetic oil for older engines.", "Sale"),
		seedProduct("prod_5", "Mobil Super 3000 5W-40", CategoryMotorOil,
			[]string{"1L", "4L"}, []int64{115000, 420000},
			"/images/mobil-3000.webp", "Synthetic oil for petrol and diesel engines."),
		seedProduct("prod_6", "ZIC X9 5W-30", CategoryMotorOil,
			[]string{"1L", "4L"}, []int64{90000, 330000},
			"/images/zic-x9.webp", "Korean synthetic oil based on YUBASE."),
		seedProduct("prod_7", "Lukoil Genesis Armortech 5W-40", CategoryMotorOil,
			[]string{"1L", "4L"}, []int64{80000, 290000},
			"/images/lukoil-genesis.webp", "Synthetic oil with Armortech additive package."),
		seedProduct("prod_8", "Total Quartz 9000 0W-20", CategoryMotorOil,
			[]string{"1L", "4L"}, []int64{130000, 480000},
			"/images/total-quartz.webp", "Low-viscosity oil for hybrids and modern engines."),
		seedProduct("prod_9", "Kixx G1 15W-40", CategoryMotorOil,
			[]string{"4L"}, []int64{240000},
			"/images/kixx-g1.webp", "Mineral oil for high-mileage engines."),
		seedProduct("prod_10", "Mannol Dexron III ATF", CategoryATF,
			[]string{"1L", "4L"}, []int64{70000, 0},
			"/images/mannol-atf.webp", "Automatic transmission fluid."),
		seedProduct("prod_11", "Fortex Gear Oil 75W-90", CategoryTransmissionOil,
			[]string{"1L"}, []int64{75000},
			"/images/fortex-gear.webp", "Transmission oil for manual gearboxes."),
		seedProduct("prod_12", "Fortex Hydraulic HLP 46", CategoryHydraulicOil,
			[]string{"1L", "20L"}, []int64{55000, 0},
			"/images/fortex-hlp46.webp", "Hydraulic oil for power steering and machinery."),
		seedProduct("prod_13", "Felix Antifreeze G12 Red", CategoryAntifreeze,
			[]string{"1L", "5L"}, []int64{45000, 200000},
			"/images/felix-g12.webp", "Ready-to-use coolant down to -40C."),
	}
}
