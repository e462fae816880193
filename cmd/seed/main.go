// Command seed populates a fresh database with a default admin user,
// a pool of unassigned companies and a pool of facebook data records.
// It is idempotent enough for development: rerunning it adds duplicate
// pool rows but never duplicate users.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/crmdesk/company-dashboard/internal/config"
	"github.com/crmdesk/company-dashboard/internal/database"
	"github.com/crmdesk/company-dashboard/internal/model"
	"github.com/crmdesk/company-dashboard/internal/repository"
	"github.com/crmdesk/company-dashboard/internal/utils"
)

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

var seedCompanies = []model.Company{
	{
		Name: "Alpha Tech Solutions", Industry: "Technology",
		Email: strptr("contact@alphatech.com"), Phone: strptr("9876543210"),
		Address: strptr("101 Silicon Avenue, Bangalore, Karnataka"),
		Website: strptr("www.alphatech.com"), CompanySize: strptr("Medium"),
		Notes: strptr("Products: AI Software, Cloud Hosting\nServices: IT Consulting, System Integration"),
	},
	{
		Name: "Blue Wave Industries", Industry: "Manufacturing",
		Email: strptr("info@bluewave.com"), Phone: strptr("9123456780"),
		Address: strptr("204 Industrial Zone, Pune, Maharashtra"),
		Website: strptr("www.bluewave.com"), CompanySize: strptr("Large"),
		Notes: strptr("Products: Hydraulic Pumps, Industrial Valves\nServices: Machinery Maintenance"),
	},
	{
		Name: "Green Leaf Organics", Industry: "Agriculture",
		Email: strptr("support@greenleaf.in"), Phone: strptr("8899776655"),
		Address: strptr("14 Green Street, Nashik, Maharashtra"),
		Website: strptr("www.greenleaf.in"), CompanySize: strptr("Medium"),
		Notes: strptr("Products: Organic Fertilizers, Bio Pesticides\nServices: Farming Consultation"),
	},
	{
		Name: "PixelCraft Media", Industry: "Media",
		Email: strptr("hello@pixelcraftmedia.com"), Phone: strptr("9812345678"),
		Address: strptr("501, Cyber Park, Hyderabad, Telangana"),
		Website: strptr("www.pixelcraftmedia.com"), CompanySize: strptr("Small"),
		Notes: strptr("Products: Motion Graphics, Brand Kits\nServices: Social Media Marketing, Video Editing"),
	},
	{
		Name: "AquaTech Equipments", Industry: "Manufacturing",
		Email: strptr("sales@aquatech.com"), Phone: strptr("9001234567"),
		Address: strptr("11 Water Lane, Surat, Gujarat"),
		Website: strptr("www.aquatech.com"), CompanySize: strptr("Medium"),
		Notes: strptr("Products: Water Filters, RO Units\nServices: Installation, AMC Services"),
	},
	{
		Name: "NextGen Mobiles", Industry: "Technology",
		Email: strptr("info@nextgenmobiles.in"), Phone: strptr("9988776655"),
		Address: strptr("3rd Floor, Megamall, Mumbai, Maharashtra"),
		Website: strptr("www.nextgenmobiles.in"), CompanySize: strptr("Large"),
		Notes: strptr("Products: Smartphones, Tablets\nServices: Customer Support, Repairs"),
	},
	{
		Name: "SecureNet Systems", Industry: "Technology",
		Email: strptr("contact@securenet.com"), Phone: strptr("9123098765"),
		Address: strptr("A-55, Tech Enclave, Noida, Uttar Pradesh"),
		Website: strptr("www.securenet.com"), CompanySize: strptr("Medium"),
		Notes: strptr("Products: Firewall Appliances, VPN Routers\nServices: Network Security, IT Audits"),
	},
	{
		Name: "Royal Furniture Mart", Industry: "Retail",
		Email: strptr("sales@royalfurnitures.com"), Phone: strptr("9955667788"),
		Address: strptr("Main Market, Ludhiana, Punjab"),
		Website: strptr("www.royalfurnitures.com"), CompanySize: strptr("Medium"),
		Notes: strptr("Products: Wooden Sofas, Dining Tables\nServices: Custom Design, Home Delivery"),
	},
	{
		Name: "SolarShine Energy", Industry: "Energy",
		Email: strptr("contact@solarshine.in"), Phone: strptr("9012341234"),
		Address: strptr("Near Solar Park, Jaipur, Rajasthan"),
		Website: strptr("www.solarshine.in"), CompanySize: strptr("Medium"),
		Notes: strptr("Products: Solar Panels, Inverters\nServices: Installation, Maintenance"),
	},
	{
		Name: "FreshBox Retail", Industry: "Retail",
		Email: strptr("info@freshboxretail.com"), Phone: strptr("9876540987"),
		Address: strptr("Market Street, Kochi, Kerala"),
		Website: strptr("www.freshboxretail.com"), CompanySize: strptr("Medium"),
		Notes: strptr("Products: Packaged Vegetables, Frozen Fruits\nServices: Cold Chain Supply"),
	},
	{
		Name: "BuildRight Constructions", Industry: "Construction",
		Email: strptr("buildright@construction.in"), Phone: strptr("9090909090"),
		Address: strptr("Civil Lines, Kanpur, Uttar Pradesh"),
		Website: strptr("www.buildright.in"), CompanySize: strptr("Large"),
		Notes: strptr("Products: Ready Mix Concrete\nServices: Residential and Commercial Construction"),
	},
	{
		Name: "Crimson Apparel House", Industry: "Textiles",
		Email: strptr("orders@crimsonapparel.in"), Phone: strptr("9811122233"),
		Address: strptr("Textile Hub, Tirupur, Tamil Nadu"),
		Website: strptr("www.crimsonapparel.in"), CompanySize: strptr("Medium"),
		Notes: strptr("Products: Knitwear, Casual Wear\nServices: Private Label Manufacturing"),
	},
}

var seedFacebookData = []model.FacebookData{
	{
		PageName: "Alpha Tech Solutions", PageURL: "facebook.com/alphatechsolutions",
		Category: strptr("Technology"), Followers: intptr(12400),
		ContactEmail: strptr("contact@alphatech.com"), Phone: strptr("9876543210"),
		Notes: strptr("Products: AI Software, Cloud Hosting"),
	},
	{
		PageName: "Blue Wave Industries", PageURL: "facebook.com/bluewaveindustries",
		Category: strptr("Manufacturing"), Followers: intptr(8300),
		ContactEmail: strptr("info@bluewave.com"), Phone: strptr("9123456780"),
		Notes: strptr("Products: Hydraulic Pumps, Industrial Valves"),
	},
	{
		PageName: "Green Leaf Organics", PageURL: "facebook.com/greenleaforganics",
		Category: strptr("Agriculture"), Followers: intptr(21500),
		ContactEmail: strptr("support@greenleaf.in"), Phone: strptr("8899776655"),
		Notes: strptr("Products: Organic Fertilizers, Bio Pesticides"),
	},
	{
		PageName: "PixelCraft Media", PageURL: "facebook.com/pixelcraftmedia",
		Category: strptr("Media"), Followers: intptr(45200),
		ContactEmail: strptr("hello@pixelcraftmedia.com"), Phone: strptr("9812345678"),
		Notes: strptr("Services: Social Media Marketing, Video Editing"),
	},
	{
		PageName: "AquaTech Equipments", PageURL: "facebook.com/aquatechequipments",
		Category: strptr("Manufacturing"), Followers: intptr(6100),
		ContactEmail: strptr("sales@aquatech.com"), Phone: strptr("9001234567"),
		Notes: strptr("Products: Water Filters, Reverse Osmosis Units"),
	},
	{
		PageName: "NextGen Mobiles", PageURL: "facebook.com/nextgenmobiles",
		Category: strptr("Technology"), Followers: intptr(98700),
		ContactEmail: strptr("info@nextgenmobiles.in"), Phone: strptr("9988776655"),
		Notes: strptr("Products: Smartphones, Tablets"),
	},
	{
		PageName: "SecureNet Systems", PageURL: "facebook.com/securenetsystems",
		Category: strptr("Technology"), Followers: intptr(15800),
		ContactEmail: strptr("contact@securenet.com"), Phone: strptr("9123098765"),
		Notes: strptr("Services: Network Security, IT Audits"),
	},
	{
		PageName: "Royal Furniture Mart", PageURL: "facebook.com/royalfurnituremart",
		Category: strptr("Retail"), Followers: intptr(33400),
		ContactEmail: strptr("sales@royalfurnitures.com"), Phone: strptr("9955667788"),
		Notes: strptr("Products: Wooden Sofas, Dining Tables"),
	},
	{
		PageName: "SolarShine Energy", PageURL: "facebook.com/solarshineenergy",
		Category: strptr("Energy"), Followers: intptr(27600),
		ContactEmail: strptr("contact@solarshine.in"), Phone: strptr("9012341234"),
		Notes: strptr("Products: Solar Panels, Inverters"),
	},
	{
		PageName: "FreshBox Retail", PageURL: "facebook.com/freshboxretail",
		Category: strptr("Retail"), Followers: intptr(19200),
		ContactEmail: strptr("info@freshboxretail.com"), Phone: strptr("9876540987"),
		Notes: strptr("Services: Cold Chain Supply"),
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	companies := repository.NewCompanyRepo(db)
	facebook := repository.NewFacebookRepo(db)

	hash, err := utils.HashPassword("admin123", cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	admin, err := users.Create(ctx, repository.NewUser{
		Username:     "admin",
		Email:        "admin@company.local",
		PasswordHash: hash,
		FullName:     "Default Admin",
		EmployeeID:   "EMP0001",
		Role:         model.RoleAdmin,
	})
	var dup *repository.DuplicateError
	switch {
	case err == nil:
		log.Printf("created admin user id=%d (change the default password)", admin.ID)
	case errors.As(err, &dup):
		log.Println("admin user already exists, skipping")
	default:
		log.Fatalf("create admin: %v", err)
	}

	for i := range seedCompanies {
		if _, err := companies.Create(ctx, &seedCompanies[i]); err != nil {
			log.Fatalf("seed company %q: %v", seedCompanies[i].Name, err)
		}
	}
	log.Printf("seeded %d companies", len(seedCompanies))

	for i := range seedFacebookData {
		if _, err := facebook.CreateData(ctx, &seedFacebookData[i]); err != nil {
			log.Fatalf("seed facebook data %q: %v", seedFacebookData[i].PageName, err)
		}
	}
	log.Printf("seeded %d facebook data records", len(seedFacebookData))
}
