package query

// Column expressions refer to the table aliases used by the repositories:
// p = products, u = users (product owner, or the listed user), c = categories.

// ProductSchema is the product listing vocabulary.
var ProductSchema = NewSchema("product",
	map[string]string{
		"id":              "p.id",
		"name":            "p.name",
		"price":           "p.price",
		"stock":           "p.stock",
		"createdAt":       "p.created_at",
		"updatedAt":       "p.updated_at",
		"owner.name":      "u.name",
		"owner.email":     "u.email",
		"categories.name": "(SELECT MIN(sc.name) FROM product_categories spc JOIN categories sc ON sc.id = spc.category_id WHERE spc.product_id = p.id)",
	},
	map[string]string{
		"category.name": "categories.name",
		"user.name":     "owner.name",
		"user.email":    "owner.email",
	},
	FilterName|FilterPriceRange|FilterCategory,
)

// CategorySchema is the category listing vocabulary.
var CategorySchema = NewSchema("category",
	map[string]string{
		"id":        "c.id",
		"name":      "c.name",
		"createdAt": "c.created_at",
		"updatedAt": "c.updated_at",
	},
	nil,
	FilterName,
)

// UserSchema is the user listing vocabulary.
var UserSchema = NewSchema("user",
	map[string]string{
		"id":        "u.id",
		"name":      "u.name",
		"email":     "u.email",
		"createdAt": "u.created_at",
		"updatedAt": "u.updated_at",
	},
	nil,
	FilterName,
)
