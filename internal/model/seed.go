package model

import "time"

// SeedProduct describes one entry of the initial catalog. Age is how long
// before startup the product was created.
type SeedProduct struct {
	Name        string        `yaml:"name"`
	Price       string        `yaml:"price"`
	Category    string        `yaml:"category"`
	Stock       int           `yaml:"stock"`
	Description string        `yaml:"description"`
	Age         time.Duration `yaml:"age"`
}

// DefaultSeed is the sample catalog shown on first start
var DefaultSeed = []SeedProduct{
	{Name: "iPhone 15 Pro", Price: "999.99", Category: "Electronics", Stock: 25, Description: "The latest flagship iPhone with titanium design and A17 Pro chip.", Age: 1000 * time.Second},
	{Name: "Ergonomic Desk Chair", Price: "249.50", Category: "Home & Kitchen", Stock: 12, Description: "High-back mesh office chair with lumbar support and 4D armrests.", Age: 2000 * time.Second},
	{Name: "Leather Weekend Bag", Price: "185.00", Category: "Fashion", Stock: 8, Description: "Handcrafted full-grain leather duffel bag for stylish travel.", Age: 3000 * time.Second},
	{Name: "Pro Noise Cancelling Headphones", Price: "349.00", Category: "Electronics", Stock: 40, Description: "Industry-leading noise cancellation with superior sound quality.", Age: 4000 * time.Second},
	{Name: "Cast Iron Skillet", Price: "45.99", Category: "Home & Kitchen", Stock: 15, Description: "Pre-seasoned 12-inch cast iron skillet for professional cooking.", Age: 5000 * time.Second},
	{Name: "Smart Watch Series 9", Price: "399.00", Category: "Electronics", Stock: 30, Description: "Powerful health monitoring and fitness tracking on your wrist.", Age: 6000 * time.Second},
	{Name: "Minimalist Wallet", Price: "29.99", Category: "Fashion", Stock: 100, Description: "RFID blocking slim aluminum wallet for front pocket carry.", Age: 7000 * time.Second},
	{Name: "Yoga Mat Premium", Price: "65.00", Category: "Sports", Stock: 20, Description: "Extra thick non-slip yoga mat for all types of practice.", Age: 8000 * time.Second},
}
