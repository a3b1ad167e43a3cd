package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

// Register wires every route. Routes with a literal segment are registered
// before their parameterized siblings so /products/sku/:sku is not shadowed
// by /products/:id.
func Register(app *fiber.App, h *Handler, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", MetricsHandler())

	read := RequireRole(RoleUser)
	write := RequireRole(RoleStaff)
	admin := RequireRole(RoleAdmin)

	inv := app.Group("/inventory", Auth(jwtSecret))

	products := inv.Group("/products")
	products.Post("/", write, h.CreateProduct)
	products.Get("/", read, h.ListProducts)
	products.Get("/sku/:sku", read, h.GetProductBySKU)
	products.Get("/category/:categoryId", read, h.ProductsByCategory)
	products.Get("/supplier/:supplierId", read, h.ProductsBySupplier)
	products.Get("/:id", read, h.GetProduct)
	products.Put("/:id", write, h.UpdateProduct)
	products.Delete("/:id", admin, h.DeleteProduct)

	categories := inv.Group("/categories")
	categories.Post("/", write, h.CreateCategory)
	categories.Get("/", read, h.ListCategories)
	categories.Get("/:id", read, h.GetCategory)
	categories.Put("/:id", write, h.UpdateCategory)
	categories.Delete("/:id", admin, h.DeleteCategory)

	suppliers := inv.Group("/suppliers")
	suppliers.Post("/", write, h.CreateSupplier)
	suppliers.Get("/", read, h.ListSuppliers)
	suppliers.Get("/:id", read, h.GetSupplier)
	suppliers.Put("/:id", write, h.UpdateSupplier)
	suppliers.Delete("/:id", admin, h.DeleteSupplier)

	warehouses := inv.Group("/warehouses")
	warehouses.Post("/", write, h.CreateWarehouse)
	warehouses.Get("/", read, h.ListWarehouses)
	warehouses.Get("/:id", read, h.GetWarehouse)
	warehouses.Put("/:id", write, h.UpdateWarehouse)
	warehouses.Delete("/:id", admin, h.DeleteWarehouse)

	levels := inv.Group("/levels")
	levels.Get("/low-stock", read, h.LowStockLevels)
	levels.Get("/product/:productId", read, h.LevelsByProduct)
	levels.Get("/warehouse/:warehouseId", read, h.LevelsByWarehouse)
	levels.Get("/:productId/:warehouseId", read, h.GetLevel)

	stock := inv.Group("/stock")
	stock.Post("/update", write, h.UpdateStock)
	stock.Post("/adjust", write, h.AdjustInventory)

	movements := inv.Group("/movements")
	movements.Get("/product/:productId", read, h.MovementsByProduct)
	movements.Get("/warehouse/:warehouseId", read, h.MovementsByWarehouse)
	movements.Get("/type/:movementType", read, h.MovementsByType)
}
