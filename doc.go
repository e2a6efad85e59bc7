// appbeacon is a small backend for a mobile app's remote configuration:
// device handshakes, app-wide settings and admin-triggered push broadcasts.
package main
