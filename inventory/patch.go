package inventory

// Patch structs list the mutable fields of each entity. Nil fields are left
// untouched by an update; ids, timestamps and derived values never appear
// here.

// ProductPatch is a partial product update.
type ProductPatch struct {
	Name         *string     `json:"name,omitempty"`
	Description  *string     `json:"description,omitempty"`
	SKU          *string     `json:"sku,omitempty"`
	CategoryID   *string     `json:"categoryId,omitempty"`
	SupplierID   *string     `json:"supplierId,omitempty"`
	UnitPrice    *Money      `json:"unitPrice,omitempty"`
	UnitCost     *Money      `json:"unitCost,omitempty"`
	MinimumStock *int64      `json:"minimumStock,omitempty"`
	MaximumStock *int64      `json:"maximumStock,omitempty"`
	Weight       *float64    `json:"weight,omitempty"`
	Dimensions   *Dimensions `json:"dimensions,omitempty"`
	IsActive     *bool       `json:"isActive,omitempty"`
	Tags         *[]string   `json:"tags,omitempty"`
}

func (p ProductPatch) apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.SKU != nil {
		dst.SKU = *p.SKU
	}
	if p.CategoryID != nil {
		dst.CategoryID = *p.CategoryID
	}
	if p.SupplierID != nil {
		dst.SupplierID = *p.SupplierID
	}
	if p.UnitPrice != nil {
		dst.UnitPrice = *p.UnitPrice
	}
	if p.UnitCost != nil {
		dst.UnitCost = *p.UnitCost
	}
	if p.MinimumStock != nil {
		dst.MinimumStock = *p.MinimumStock
	}
	if p.MaximumStock != nil {
		dst.MaximumStock = *p.MaximumStock
	}
	if p.Weight != nil {
		dst.Weight = *p.Weight
	}
	if p.Dimensions != nil {
		dst.Dimensions = p.Dimensions
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
	if p.Tags != nil {
		dst.Tags = *p.Tags
	}
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	ParentCategoryID *string `json:"parentCategoryId,omitempty"`
	IsActive         *bool   `json:"isActive,omitempty"`
}

func (p CategoryPatch) apply(dst *Category) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.ParentCategoryID != nil {
		dst.ParentCategoryID = *p.ParentCategoryID
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}

// SupplierPatch is a partial supplier update.
type SupplierPatch struct {
	Name         *string  `json:"name,omitempty"`
	ContactEmail *string  `json:"contactEmail,omitempty"`
	ContactPhone *string  `json:"contactPhone,omitempty"`
	Address      *Address `json:"address,omitempty"`
	PaymentTerms *string  `json:"paymentTerms,omitempty"`
	LeadTimeDays *int64   `json:"leadTimeDays,omitempty"`
	IsActive     *bool    `json:"isActive,omitempty"`
}

func (p SupplierPatch) apply(dst *Supplier) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.ContactEmail != nil {
		dst.ContactEmail = *p.ContactEmail
	}
	if p.ContactPhone != nil {
		dst.ContactPhone = *p.ContactPhone
	}
	if p.Address != nil {
		dst.Address = p.Address
	}
	if p.PaymentTerms != nil {
		dst.PaymentTerms = *p.PaymentTerms
	}
	if p.LeadTimeDays != nil {
		dst.LeadTimeDays = *p.LeadTimeDays
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}

// WarehousePatch is a partial warehouse update.
type WarehousePatch struct {
	Name     *string  `json:"name,omitempty"`
	Address  *Address `json:"address,omitempty"`
	Capacity *int64   `json:"capacity,omitempty"`
	IsActive *bool    `json:"isActive,omitempty"`
}

func (p WarehousePatch) apply(dst *Warehouse) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Address != nil {
		dst.Address = p.Address
	}
	if p.Capacity != nil {
		dst.Capacity = *p.Capacity
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}
