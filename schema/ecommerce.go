package schema

// Ecommerce declares the platform's reporting schema. Field and relation names
// here are the vocabulary that interpretations address, so renaming one is a
// breaking change for stored prompts and report-builder presets.
func Ecommerce() *Schema {
	categories := NewModel("categories", "categories", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "name", DataType: DataTypeText},
		{Name: "description", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, nil)

	subcategories := NewModel("subcategories", "subcategories", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "name", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "category", Target: "categories", ForeignKeyColumn: "category_id"},
	})

	brands := NewModel("brands", "brands", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "name", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, nil)

	products := NewModel("products", "products", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "name", DataType: DataTypeText},
		{Name: "description", DataType: DataTypeText},
		{Name: "model", DataType: DataTypeText},
		{Name: "cash_price", DataType: DataTypeDecimal},
		{Name: "installment_price", DataType: DataTypeDecimal},
		{Name: "stock", DataType: DataTypeInt},
		{Name: "warranty_months", DataType: DataTypeInt},
		{Name: "registered_at", DataType: DataTypeDate},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "brand", Target: "brands", ForeignKeyColumn: "brand_id"},
		{Name: "subcategory", Target: "subcategories", ForeignKeyColumn: "subcategory_id"},
	})

	groups := NewModel("groups", "groups", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "name", DataType: DataTypeText},
		{Name: "description", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, nil)

	customers := NewModel("customers", "customers", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "username", DataType: DataTypeText},
		{Name: "first_name", DataType: DataTypeText},
		{Name: "last_name", DataType: DataTypeText},
		{Name: "email", DataType: DataTypeText},
		{Name: "id_number", DataType: DataTypeText},
		{Name: "phone", DataType: DataTypeText},
		{Name: "date_joined", DataType: DataTypeDateTime},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "group", Target: "groups", ForeignKeyColumn: "group_id"},
	})

	carts := NewModel("carts", "carts", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "date", DataType: DataTypeDate},
		{Name: "total", DataType: DataTypeDecimal},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "customer", Target: "customers", ForeignKeyColumn: "customer_id"},
	})

	cartItems := NewModel("cart_items", "cart_items", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "quantity", DataType: DataTypeInt},
		{Name: "unit_price", DataType: DataTypeDecimal},
		{Name: "subtotal", DataType: DataTypeDecimal},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "cart", Target: "carts", ForeignKeyColumn: "cart_id"},
		{Name: "product", Target: "products", ForeignKeyColumn: "product_id"},
	})

	paymentOptions := NewModel("payment_options", "payment_options", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "name", DataType: DataTypeText},
		{Name: "description", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, nil)

	orders := NewModel("orders", "orders", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "date", DataType: DataTypeDate},
		{Name: "total", DataType: DataTypeDecimal},
		// One of: pending, paying, paid, cancelled.
		{Name: "status", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "customer", Target: "customers", ForeignKeyColumn: "customer_id"},
		{Name: "cart", Target: "carts", ForeignKeyColumn: "cart_id"},
		{Name: "payment_option", Target: "payment_options", ForeignKeyColumn: "payment_option_id"},
	})

	orderItems := NewModel("order_items", "order_items", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "quantity", DataType: DataTypeInt},
		{Name: "unit_price", DataType: DataTypeDecimal},
		{Name: "subtotal", DataType: DataTypeDecimal},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "order", Target: "orders", ForeignKeyColumn: "order_id"},
		{Name: "product", Target: "products", ForeignKeyColumn: "product_id"},
	})

	paymentPlans := NewModel("payment_plans", "payment_plans", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "installment_number", DataType: DataTypeInt},
		{Name: "amount", DataType: DataTypeDecimal},
		{Name: "due_date", DataType: DataTypeDate},
		// One of: pending, paid.
		{Name: "status", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "order", Target: "orders", ForeignKeyColumn: "order_id"},
	})

	paymentMethods := NewModel("payment_methods", "payment_methods", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "name", DataType: DataTypeText},
		{Name: "description", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, nil)

	payments := NewModel("payments", "payments", []Field{
		{Name: "id", DataType: DataTypeInt},
		{Name: "paid_at", DataType: DataTypeDate},
		{Name: "amount", DataType: DataTypeDecimal},
		{Name: "receipt", DataType: DataTypeText},
		{Name: "is_active", DataType: DataTypeBool},
	}, []Relation{
		{Name: "payment_plan", Target: "payment_plans", ForeignKeyColumn: "payment_plan_id"},
		{Name: "payment_method", Target: "payment_methods", ForeignKeyColumn: "payment_method_id"},
	})

	schema, err := NewSchema(
		categories, subcategories, brands, products,
		groups, customers,
		carts, cartItems,
		paymentOptions, orders, orderItems,
		paymentPlans, paymentMethods, payments,
	)
	if err != nil {
		// The schema is declared above, so a broken relation is a programming error.
		panic(err)
	}

	return schema
}
