package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Conn *pgxpool.Pool

// Init connects to Postgres
func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
	}

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	// Idempotent schema bootstrap; each step logs and moves on if it fails
	ensureUsersTable()
	ensureListingsTable()
	ensureBookingsTable()
	ensureReviewsTable()
	ensureTimeBankTables()
	ensureCommunityTables()
	ensureMessagesTable()
	ensureReportsTable()
	ensurePaymentsTable()
	ensureNotificationsTable()
}

func ensureUsersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member','moderator','admin','owner')),
            bio TEXT DEFAULT '',
            avatar_url TEXT DEFAULT '',
            university TEXT DEFAULT '',
            skills TEXT[] DEFAULT '{}',
            is_active BOOLEAN DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
    `)
	if err != nil {
		log.Printf("failed to ensure users table: %v", err)
		return
	}
	// Backfill NULLs left by older schema revisions
	_, _ = Conn.Exec(ctx, `UPDATE users SET is_active = TRUE WHERE is_active IS NULL`)
}

func ensureListingsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS listings (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT DEFAULT '',
            category TEXT DEFAULT '',
            kind TEXT NOT NULL DEFAULT 'offer' CHECK (kind IN ('offer','request')),
            hourly_rate BIGINT NOT NULL CHECK (hourly_rate > 0),
            status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','hidden','removed')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_listings_user ON listings(user_id);
        CREATE INDEX IF NOT EXISTS idx_listings_status_category ON listings(status, category);
    `)
	if err != nil {
		log.Printf("failed to ensure listings table: %v", err)
	}
}

func ensureBookingsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS bookings (
            id UUID PRIMARY KEY,
            listing_id UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            client_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            provider_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            booking_date TIMESTAMP WITH TIME ZONE NOT NULL,
            duration INTEGER NOT NULL CHECK (duration > 0),
            total_hours INTEGER NOT NULL CHECK (total_hours > 0),
            total_amount BIGINT NOT NULL,
            message TEXT DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending','confirmed','rejected','cancelled','completed')),
            rejection_reason TEXT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_bookings_client ON bookings(client_id);
        CREATE INDEX IF NOT EXISTS idx_bookings_provider ON bookings(provider_id);
        CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status);
    `)
	if err != nil {
		log.Printf("failed to ensure bookings table: %v", err)
	}
}

func ensureReviewsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS reviews (
            id UUID PRIMARY KEY,
            booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
            reviewer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            reviewee_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            quality INTEGER NOT NULL CHECK (quality BETWEEN 1 AND 5),
            speed INTEGER NOT NULL CHECK (speed BETWEEN 1 AND 5),
            cooperation INTEGER NOT NULL CHECK (cooperation BETWEEN 1 AND 5),
            comment TEXT DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_booking_reviewer ON reviews(booking_id, reviewer_id);
        CREATE INDEX IF NOT EXISTS idx_reviews_reviewee ON reviews(reviewee_id);
    `)
	if err != nil {
		log.Printf("failed to ensure reviews table: %v", err)
	}
}

func ensureTimeBankTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS time_bank_transactions (
            id UUID PRIMARY KEY,
            sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            hours INTEGER NOT NULL CHECK (hours > 0),
            description TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected')),
            reference UUID NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            resolved_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_tbt_sender ON time_bank_transactions(sender_id);
        CREATE INDEX IF NOT EXISTS idx_tbt_recipient ON time_bank_transactions(recipient_id);
        CREATE INDEX IF NOT EXISTS idx_tbt_status ON time_bank_transactions(status);
    `)
	if err != nil {
		log.Printf("failed to ensure time_bank_transactions table: %v", err)
		return
	}

	_, err = Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS time_bank_balances (
            user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            hours_earned INTEGER NOT NULL DEFAULT 0,
            hours_spent INTEGER NOT NULL DEFAULT 0,
            hours_pending INTEGER NOT NULL DEFAULT 0,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
    `)
	if err != nil {
		log.Printf("failed to ensure time_bank_balances table: %v", err)
	}
}

func ensureCommunityTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS posts (
            id UUID PRIMARY KEY,
            author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            body TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'visible' CHECK (status IN ('visible','hidden','removed')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
        CREATE INDEX IF NOT EXISTS idx_posts_status_created ON posts(status, created_at);
    `)
	if err != nil {
		log.Printf("failed to ensure posts table: %v", err)
		return
	}

	_, err = Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS events (
            id UUID PRIMARY KEY,
            organizer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT DEFAULT '',
            location TEXT DEFAULT '',
            starts_at TIMESTAMP WITH TIME ZONE NOT NULL,
            capacity INTEGER NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'visible' CHECK (status IN ('visible','hidden','removed')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS event_attendees (
            event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (event_id, user_id)
        );
        CREATE INDEX IF NOT EXISTS idx_events_starts ON events(starts_at);
    `)
	if err != nil {
		log.Printf("failed to ensure events tables: %v", err)
	}
}

func ensureMessagesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
            sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_messages_booking_created ON messages(booking_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_messages_recipient_unread ON messages(recipient_id) WHERE read_at IS NULL;
    `)
	if err != nil {
		log.Printf("failed to ensure messages table: %v", err)
	}
}

func ensureReportsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS reports (
            id UUID PRIMARY KEY,
            reporter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            target_type TEXT NOT NULL CHECK (target_type IN ('post','comment','profile','listing')),
            target_id UUID NOT NULL,
            reason TEXT NOT NULL,
            details TEXT DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','resolved','rejected')),
            resolution_note TEXT NULL,
            resolved_by UUID NULL REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            resolved_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
        CREATE INDEX IF NOT EXISTS idx_reports_target ON reports(target_type, target_id);
    `)
	if err != nil {
		log.Printf("failed to ensure reports table: %v", err)
	}
}

func ensurePaymentsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS payments (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount BIGINT NOT NULL CHECK (amount > 0),
            phone TEXT NOT NULL,
            reference TEXT NOT NULL,
            proof_path TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','verified','rejected')),
            verification_note TEXT NULL,
            verified_by UUID NULL REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            verified_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id);
        CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);
    `)
	if err != nil {
		log.Printf("failed to ensure payments table: %v", err)
	}
}

// ensureNotificationsTable creates notifications table if it doesn't exist
func ensureNotificationsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type TEXT NOT NULL,
            title TEXT NOT NULL,
            body TEXT,
            reference UUID NULL,
            metadata JSONB NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL;
    `)
	if err != nil {
		log.Printf("failed to create notifications table: %v", err)
	}
}
