// Command house-guard runs the house safety controller: it samples the
// sensors, drives the fan, window servos, lamps, buzzer and display, and
// publishes what it does to MQTT.
package main

func main() {
	Execute()
}
