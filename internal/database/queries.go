package database

// Order queries
const (
	insertOrderSQL = `
		INSERT INTO orders (id, order_number, order_type, table_number, customer_name, total_amount,
			status, payment_status, notes, created_by_user_id, order_created_at, order_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	orderColumns = `
		id, order_number, order_type, table_number, customer_name, total_amount,
		status, payment_status, notes, created_by_user_id,
		order_created_at, order_updated_at, order_processing_at, order_ready_at, order_completed_at`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	getOrderForUpdateSQL = getOrderSQL + ` FOR UPDATE`

	listActiveOrdersSQL = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status IN ('pending', 'processing', 'ready')
		ORDER BY
			CASE status
				WHEN 'pending' THEN 1
				WHEN 'processing' THEN 2
				WHEN 'ready' THEN 3
			END,
			order_created_at ASC`

	updateOrderTotalSQL = `
		UPDATE orders SET total_amount = $1, order_updated_at = $2 WHERE id = $3`

	// Phase timestamps are first-write-wins: COALESCE keeps an instant
	// already recorded on re-entry into the same status.
	updateOrderStatusSQL = `
		UPDATE orders SET
			status = $1,
			order_updated_at = $2,
			order_processing_at = CASE WHEN $1 = 'processing' THEN COALESCE(order_processing_at, $2) ELSE order_processing_at END,
			order_ready_at      = CASE WHEN $1 = 'ready'      THEN COALESCE(order_ready_at, $2)      ELSE order_ready_at END,
			order_completed_at  = CASE WHEN $1 = 'completed'  THEN COALESCE(order_completed_at, $2)  ELSE order_completed_at END
		WHERE id = $3`

	setPaymentStatusSQL = `
		UPDATE orders SET payment_status = $1, order_updated_at = $2 WHERE id = $3`

	// A fully paid order is promoted to completed unless it already left
	// the active lifecycle; a cancelled order is never resurrected.
	setPaymentStatusPromoteSQL = `
		UPDATE orders SET
			payment_status = $1,
			order_updated_at = $2,
			status = CASE WHEN status NOT IN ('completed', 'cancelled') THEN 'completed' ELSE status END,
			order_completed_at = COALESCE(order_completed_at, $2)
		WHERE id = $3`
)

// Order item queries
const (
	insertOrderItemSQL = `
		INSERT INTO order_items (id, order_id, menu_item_id, name, quantity, price_at_order, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	deleteOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`

	getOrderItemsSQL = `
		SELECT id, order_id, menu_item_id, name, quantity, price_at_order, subtotal
		FROM order_items WHERE order_id = $1`
)

// Payment and debt queries
const (
	insertPaymentSQL = `
		INSERT INTO payments (id, order_id, amount, payment_method, payment_proof_url, payment_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getOrderPaymentsSQL = `
		SELECT id, order_id, amount, payment_method, payment_proof_url, payment_time, notes
		FROM payments WHERE order_id = $1 ORDER BY payment_time ASC`

	sumPaymentsSQL = `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE order_id = $1`

	insertDebtSQL = `
		INSERT INTO debts (id, order_id, customer_name, amount, status, debt_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getDebtSQL = `
		SELECT id, order_id, customer_name, amount, status, debt_date, paid_date, notes
		FROM debts WHERE id = $1`

	markDebtPaidSQL = `UPDATE debts SET status = 'paid', paid_date = $1 WHERE id = $2`

	countUnpaidDebtsSQL = `SELECT COUNT(*) FROM debts WHERE order_id = $1 AND status = 'unpaid'`

	listDebtsSQL = `
		SELECT d.id, d.order_id, d.customer_name, d.amount, d.status, d.debt_date, d.paid_date, d.notes,
			o.order_number, o.order_type, o.table_number
		FROM debts d
		JOIN orders o ON d.order_id = o.id`
)

// Audit log queries
const (
	insertOrderLogSQL = `
		INSERT INTO order_logs (id, order_id, action, old_value, new_value, logged_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getOrderLogsSQL = `
		SELECT id, order_id, action, old_value, new_value, logged_at, user_id
		FROM order_logs WHERE order_id = $1 ORDER BY logged_at DESC`
)

// Sequence queries
const (
	// The per-date counter row is the serialization point: the upsert
	// increments and returns in one statement, so two concurrent callers
	// can never observe the same prior value.
	nextOrderNumberSQL = `
		INSERT INTO order_sequence (date, last_number) VALUES ($1, 1)
		ON CONFLICT (date) DO UPDATE SET last_number = order_sequence.last_number + 1
		RETURNING last_number`
)

// Menu queries
const (
	menuItemColumns = `id, name, price, category, is_available, photo_url, created_at, updated_at`

	getMenuItemSQL = `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`

	insertMenuItemSQL = `
		INSERT INTO menu_items (id, name, price, category, is_available, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateMenuItemSQL = `
		UPDATE menu_items SET
			name = COALESCE($1, name),
			price = COALESCE($2, price),
			category = COALESCE($3, category),
			is_available = COALESCE($4, is_available),
			photo_url = COALESCE($5, photo_url),
			updated_at = $6
		WHERE id = $7`

	deleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`

	setMenuAvailabilitySQL = `UPDATE menu_items SET is_available = $1, updated_at = $2 WHERE id = $3`
)

// User queries
const (
	getUserByUsernameSQL = `
		SELECT id, username, password_hash, role, telegram_id, created_at
		FROM users WHERE username = $1`

	getUserByIDSQL = `
		SELECT id, username, password_hash, role, telegram_id, created_at
		FROM users WHERE id = $1`

	insertUserSQL = `
		INSERT INTO users (id, username, password_hash, role, telegram_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	listUsersSQL = `
		SELECT id, username, password_hash, role, telegram_id, created_at
		FROM users ORDER BY created_at ASC`

	deleteUserSQL = `DELETE FROM users WHERE id = $1`
)
