package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
)

const baseURL = "http://localhost:8080/api"

// client carries the cookie jar so that the session established by login is
// sent with every later request.
var client *http.Client

// Smoke test walking the full API: register, log in, create a contact, list,
// update, delete, log out. Prints each step's status code and body.
//
// Usage example on the command line:
// > go run main.go
func main() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	client = &http.Client{Jar: jar}

	credentials := `{"username": "smoketest", "password": "smoketest-pw"}`
	send("POST", "/register", credentials) // 400 when the user already exists
	send("POST", "/login", credentials)

	body := send("POST", "/contacts", `{
		"firstname": "Marcus",
		"lastname": "Antonius",
		"email": "marcus@example.com",
		"street_address": "Via Sacra 1",
		"apartment_unit": "II",
		"city": "Rome",
		"zip_code": "00100",
		"phone": "+39 999 777 555"
	}`)
	var created struct {
		Id int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		panic(err)
	}

	send("GET", "/contacts", "")
	send("PUT", fmt.Sprintf("/contacts/%d", created.Id), `{
		"firstname": "Marcus",
		"lastname": "Antonius",
		"email": "marcus@example.com",
		"street_address": "Via Sacra 1",
		"apartment_unit": "II",
		"city": "Alexandria",
		"zip_code": "21500",
		"phone": "+39 999 777 555"
	}`)
	send("DELETE", fmt.Sprintf("/contacts/%d", created.Id), "")
	send("GET", "/logout", "")
}

// send executes one HTTP request against the API and returns the response
// body.
func send(method string, path string, body string) []byte {
	request, err := http.NewRequest(method, baseURL+path, bytes.NewReader([]byte(body)))
	if err != nil {
		panic(err)
	}
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	response, err := client.Do(request)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer response.Body.Close()
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s %s -> %d %s\n", method, path, response.StatusCode, responseBody)
	return responseBody
}
