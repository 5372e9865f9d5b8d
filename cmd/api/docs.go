package main

// @title Weather Dashboard API
// @version 1.0
// @description Current weather, forecast, air quality and place search backed by OpenWeather.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /
