package migrations

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT,
		source TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// Абсолютный интервал бронирования: end <= start означает окончание на следующие сутки
	`CREATE OR REPLACE FUNCTION booking_period(d TEXT, s TEXT, e TEXT) RETURNS tsrange
	LANGUAGE sql IMMUTABLE STRICT AS $$
		SELECT tsrange(
			make_timestamp(split_part(d, '-', 1)::int, split_part(d, '-', 2)::int, split_part(d, '-', 3)::int,
				split_part(s, ':', 1)::int, split_part(s, ':', 2)::int, 0),
			make_timestamp(split_part(d, '-', 1)::int, split_part(d, '-', 2)::int, split_part(d, '-', 3)::int,
				split_part(e, ':', 1)::int, split_part(e, ':', 2)::int, 0)
				+ CASE WHEN e <= s THEN interval '1 day' ELSE interval '0' END,
			'[)')
	$$`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT NOT NULL REFERENCES clients(id),
		booking_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		hours NUMERIC(6,2) NOT NULL,
		hourly_rate NUMERIC(12,2) NOT NULL,
		rental_cost NUMERIC(12,2) NOT NULL,
		deposit_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'preliminary',
		guest_count INTEGER,
		event_type TEXT,
		notes TEXT,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		calendar_event_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
			booking_period(booking_date, start_time, end_time) WITH &&
		) WHERE (status <> 'cancelled' AND NOT is_archived)
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
		payment_type TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS addon_services (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		sale_price NUMERIC(12,2) NOT NULL,
		cost_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS booking_addons (
		id BIGSERIAL PRIMARY KEY,
		booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		service_id BIGINT NOT NULL REFERENCES addon_services(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		sale_price NUMERIC(12,2) NOT NULL,
		cost_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(booking_date)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_client_id ON bookings(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_booking_id ON payments(booking_id)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_addons_booking_id ON booking_addons(booking_id)`,
}
