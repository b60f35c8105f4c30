package migrations

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,

	`CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT,
		source TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id INTEGER NOT NULL REFERENCES clients(id),
		booking_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		hours REAL NOT NULL,
		hourly_rate REAL NOT NULL,
		rental_cost REAL NOT NULL,
		deposit_amount REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'preliminary',
		guest_count INTEGER,
		event_type TEXT,
		notes TEXT,
		is_archived BOOLEAN NOT NULL DEFAULT 0,
		calendar_event_id TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		amount REAL NOT NULL CHECK (amount > 0),
		payment_type TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS addon_services (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		sale_price REAL NOT NULL,
		cost_price REAL NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS booking_addons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		service_id INTEGER NOT NULL REFERENCES addon_services(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		sale_price REAL NOT NULL,
		cost_price REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(booking_date)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_client_id ON bookings(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_booking_id ON payments(booking_id)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_addons_booking_id ON booking_addons(booking_id)`,
}
